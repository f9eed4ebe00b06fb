package cart

import (
	"sync"

	"github.com/nikolayk812/happycart-demo/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// Engine owns the session cart. The four mutation methods are the only way to change it.
type Engine struct {
	mu     sync.RWMutex
	state  domain.Cart
	logger *zap.Logger
}

func NewEngine(unit currency.Unit, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		state:  Empty(unit),
		logger: logger,
	}
}

func (e *Engine) AddItem(candidate domain.ItemCandidate) domain.Cart {
	e.logger.Debug("adding item", zap.String("product_id", candidate.ID))
	return e.dispatch(AddItem{Candidate: candidate})
}

// AddItems adds candidates in order under a single lock so readers never observe a partial batch.
func (e *Engine) AddItems(candidates []domain.ItemCandidate) domain.Cart {
	actions := make([]Action, 0, len(candidates))
	for _, c := range candidates {
		actions = append(actions, AddItem{Candidate: c})
	}
	e.logger.Debug("adding items", zap.Int("count", len(candidates)))
	return e.dispatch(actions...)
}

func (e *Engine) UpdateQuantity(id string, quantity int) domain.Cart {
	e.logger.Debug("updating quantity", zap.String("product_id", id), zap.Int("quantity", quantity))
	return e.dispatch(UpdateQuantity{ID: id, Quantity: quantity})
}

func (e *Engine) RemoveItem(id string) domain.Cart {
	e.logger.Debug("removing item", zap.String("product_id", id))
	return e.dispatch(RemoveItem{ID: id})
}

func (e *Engine) Clear() domain.Cart {
	e.logger.Debug("clearing cart")
	return e.dispatch(Clear{})
}

// Drain clears the cart and returns what it held, atomically.
func (e *Engine) Drain() domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	drained := e.state.Clone()
	e.state = Reduce(e.state, Clear{})
	e.logger.Debug("cart drained", zap.Int("item_count", drained.ItemCount))
	return drained
}

func (e *Engine) Snapshot() domain.Cart {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state.Clone()
}

func (e *Engine) dispatch(actions ...Action) domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range actions {
		e.state = Reduce(e.state, a)
	}
	return e.state.Clone()
}
