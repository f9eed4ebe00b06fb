package cart

import (
	"github.com/nikolayk812/happycart-demo/internal/domain"
	"golang.org/x/text/currency"
)

// Action is one of the four cart mutations.
type Action interface {
	apply(items []domain.CartItem, unit currency.Unit) ([]domain.CartItem, bool)
}

type AddItem struct {
	Candidate domain.ItemCandidate
}

type UpdateQuantity struct {
	ID       string
	Quantity int
}

type RemoveItem struct {
	ID string
}

type Clear struct{}

// Empty returns an empty cart priced in unit.
func Empty(unit currency.Unit) domain.Cart {
	return domain.Cart{
		Items: []domain.CartItem{},
		Total: domain.ZeroMoney(unit),
	}
}

// Reduce applies action to state and returns the next state. It never mutates state, and an
// action that cannot apply returns state unchanged.
func Reduce(state domain.Cart, action Action) domain.Cart {
	if action == nil {
		return state
	}

	unit := state.Total.Currency
	items, changed := action.apply(state.Items, unit)
	if !changed {
		return state
	}

	return derive(items, unit)
}

func (a AddItem) apply(items []domain.CartItem, unit currency.Unit) ([]domain.CartItem, bool) {
	c := a.Candidate
	if c.ID == "" || c.Price.IsNegative() || c.Price.Currency != unit {
		return items, false
	}

	if i := indexOf(items, c.ID); i >= 0 {
		next := clone(items)
		next[i].Quantity++
		return next, true
	}

	next := make([]domain.CartItem, len(items), len(items)+1)
	copy(next, items)
	next = append(next, domain.CartItem{
		ID:       c.ID,
		Name:     c.Name,
		Price:    c.Price,
		Business: c.Business,
		Variant:  c.Variant,
		Quantity: 1,
	})
	return next, true
}

func (a UpdateQuantity) apply(items []domain.CartItem, unit currency.Unit) ([]domain.CartItem, bool) {
	i := indexOf(items, a.ID)
	if i < 0 {
		return items, false
	}

	if a.Quantity <= 0 {
		return RemoveItem{ID: a.ID}.apply(items, unit)
	}

	if items[i].Quantity == a.Quantity {
		return items, false
	}

	next := clone(items)
	next[i].Quantity = a.Quantity
	return next, true
}

func (a RemoveItem) apply(items []domain.CartItem, _ currency.Unit) ([]domain.CartItem, bool) {
	i := indexOf(items, a.ID)
	if i < 0 {
		return items, false
	}

	next := make([]domain.CartItem, 0, len(items)-1)
	next = append(next, items[:i]...)
	next = append(next, items[i+1:]...)
	return next, true
}

func (Clear) apply(items []domain.CartItem, _ currency.Unit) ([]domain.CartItem, bool) {
	return []domain.CartItem{}, true
}

func derive(items []domain.CartItem, unit currency.Unit) domain.Cart {
	total := domain.ZeroMoney(unit)
	count := 0
	for _, item := range items {
		total = total.Add(item.Subtotal())
		count += item.Quantity
	}

	return domain.Cart{
		Items:     items,
		Total:     total,
		ItemCount: count,
	}
}

func indexOf(items []domain.CartItem, id string) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(items []domain.CartItem) []domain.CartItem {
	next := make([]domain.CartItem, len(items))
	copy(next, items)
	return next
}
