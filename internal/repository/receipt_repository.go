package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	insertReceiptSQL = `
INSERT INTO receipts (id, total_amount, total_currency, item_count, photo_filename, created_at)
VALUES ($1, $2::numeric, $3, $4, NULLIF($5, ''), COALESCE($6::timestamptz, now()))`

	insertReceiptItemSQL = `
INSERT INTO receipt_items (receipt_id, position, product_id, name, business, variant, price_amount, price_currency, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)`

	selectReceiptSQL = `
SELECT id, total_amount::text, total_currency, item_count, COALESCE(photo_filename, ''), created_at
FROM receipts
WHERE id = $1`

	listReceiptsSQL = `
SELECT id, total_amount::text, total_currency, item_count, COALESCE(photo_filename, ''), created_at
FROM receipts
ORDER BY created_at DESC, id
LIMIT $1`

	selectReceiptItemsSQL = `
SELECT product_id, name, business, variant, price_amount::text, price_currency, quantity
FROM receipt_items
WHERE receipt_id = $1
ORDER BY position`
)

type receiptRepository struct {
	q    querier
	pool *pgxpool.Pool
}

func NewReceipt(pool *pgxpool.Pool) (port.ReceiptRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &receiptRepository{
		q:    pool,
		pool: pool,
	}, nil
}

func NewReceiptWithTx(tx pgx.Tx) port.ReceiptRepository {
	return &receiptRepository{
		q:    tx,
		pool: nil, // use provided transaction instead
	}
}

func (r *receiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	if receipt.ID == uuid.Nil {
		return fmt.Errorf("receipt ID is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q querier) (struct{}, error) {
		var createdAt *time.Time
		if !receipt.CreatedAt.IsZero() {
			createdAt = &receipt.CreatedAt
		}

		_, err := q.Exec(ctx, insertReceiptSQL,
			receipt.ID,
			receipt.Total.Amount.String(),
			receipt.Total.Currency.String(),
			receipt.ItemCount,
			receipt.PhotoFilename,
			createdAt,
		)
		if err != nil {
			return struct{}{}, fmt.Errorf("q.Exec(insert receipt): %w", err)
		}

		for i, item := range receipt.Items {
			_, err := q.Exec(ctx, insertReceiptItemSQL,
				receipt.ID,
				i,
				item.ID,
				item.Name,
				item.Business,
				string(item.Variant),
				item.Price.Amount.String(),
				item.Price.Currency.String(),
				item.Quantity,
			)
			if err != nil {
				return struct{}{}, fmt.Errorf("q.Exec(insert receipt item[%s]): %w", item.ID, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (r *receiptRepository) GetReceipt(ctx context.Context, id uuid.UUID) (domain.Receipt, error) {
	if id == uuid.Nil {
		return domain.Receipt{}, fmt.Errorf("receipt ID is empty")
	}

	receipt, err := scanReceipt(r.q.QueryRow(ctx, selectReceiptSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Receipt{}, fmt.Errorf("receipt[%s]: %w", id, ErrReceiptNotFound)
	}
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("scanReceipt: %w", err)
	}

	receipt.Items, err = r.getItems(ctx, id)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("r.getItems: %w", err)
	}

	return receipt, nil
}

func (r *receiptRepository) ListReceipts(ctx context.Context, limit int) ([]domain.Receipt, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := r.q.Query(ctx, listReceiptsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("q.Query(list receipts): %w", err)
	}

	var receipts []domain.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanReceipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	for i := range receipts {
		receipts[i].Items, err = r.getItems(ctx, receipts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("r.getItems: %w", err)
		}
	}

	return receipts, nil
}

func (r *receiptRepository) getItems(ctx context.Context, receiptID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := r.q.Query(ctx, selectReceiptItemsSQL, receiptID)
	if err != nil {
		return nil, fmt.Errorf("q.Query(receipt items): %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item                  domain.CartItem
			variant, amount, unit string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Business, &variant, &amount, &unit, &item.Quantity); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		price, err := mapMoney(amount, unit)
		if err != nil {
			return nil, fmt.Errorf("mapMoney: %w", err)
		}
		item.Price = price
		item.Variant = domain.Variant(variant)

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func scanReceipt(row pgx.Row) (domain.Receipt, error) {
	var (
		receipt                domain.Receipt
		totalAmount, totalUnit string
	)

	err := row.Scan(&receipt.ID, &totalAmount, &totalUnit, &receipt.ItemCount, &receipt.PhotoFilename, &receipt.CreatedAt)
	if err != nil {
		return domain.Receipt{}, err
	}

	receipt.Total, err = mapMoney(totalAmount, totalUnit)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("mapMoney: %w", err)
	}

	return receipt, nil
}

func mapMoney(amount, unit string) (domain.Money, error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("amount[%s] is not valid: %w", amount, err)
	}

	parsedCurrency, err := currency.ParseISO(unit)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", unit, err)
	}

	return domain.Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}
