package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_receipts.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomReceipt() domain.Receipt {
	unit := currency.USD

	items := make([]domain.CartItem, 0, 3)
	total := domain.ZeroMoney(unit)
	count := 0
	for range gofakeit.Number(1, 3) {
		item := domain.CartItem{
			ID:       gofakeit.UUID(),
			Name:     gofakeit.ProductName(),
			Price:    domain.Money{Amount: decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2), Currency: unit},
			Business: gofakeit.Company(),
			Variant:  domain.VariantStarbucks,
			Quantity: gofakeit.Number(1, 5),
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}

	return domain.Receipt{
		ID:        uuid.New(),
		Items:     items,
		Total:     total,
		ItemCount: count,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func assertReceipt(t *testing.T, expected, actual domain.Receipt) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmpopts.IgnoreFields(domain.Receipt{}, "CreatedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
}
