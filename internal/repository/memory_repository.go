package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/port"
)

// memoryRepository keeps receipts for the lifetime of the process.
type memoryRepository struct {
	mu       sync.RWMutex
	receipts map[uuid.UUID]domain.Receipt
	order    []uuid.UUID
	now      func() time.Time
}

func NewMemory() port.ReceiptRepository {
	return &memoryRepository{
		receipts: make(map[uuid.UUID]domain.Receipt),
		now:      time.Now,
	}
}

func (r *memoryRepository) SaveReceipt(_ context.Context, receipt domain.Receipt) error {
	if receipt.ID == uuid.Nil {
		return fmt.Errorf("receipt ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.receipts[receipt.ID]; exists {
		return fmt.Errorf("receipt[%s] already exists", receipt.ID)
	}

	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = r.now()
	}
	receipt.Items = slices.Clone(receipt.Items)

	r.receipts[receipt.ID] = receipt
	r.order = append(r.order, receipt.ID)
	return nil
}

func (r *memoryRepository) GetReceipt(_ context.Context, id uuid.UUID) (domain.Receipt, error) {
	if id == uuid.Nil {
		return domain.Receipt{}, fmt.Errorf("receipt ID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	receipt, ok := r.receipts[id]
	if !ok {
		return domain.Receipt{}, fmt.Errorf("receipt[%s]: %w", id, ErrReceiptNotFound)
	}

	receipt.Items = slices.Clone(receipt.Items)
	return receipt, nil
}

func (r *memoryRepository) ListReceipts(_ context.Context, limit int) ([]domain.Receipt, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	receipts := make([]domain.Receipt, 0, min(limit, len(r.order)))
	for i := len(r.order) - 1; i >= 0 && len(receipts) < limit; i-- {
		receipt := r.receipts[r.order[i]]
		receipt.Items = slices.Clone(receipt.Items)
		receipts = append(receipts, receipt)
	}

	return receipts, nil
}
