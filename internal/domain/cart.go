package domain

// ItemCandidate is what the storefront hands to the cart when a product is added.
type ItemCandidate struct {
	ID       string
	Name     string
	Price    Money
	Business string
	Variant  Variant
}

type CartItem struct {
	ID       string
	Name     string
	Price    Money
	Business string
	Variant  Variant
	Quantity int
}

func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// Cart holds items in insertion order. Total and ItemCount are derived from Items.
type Cart struct {
	Items     []CartItem
	Total     Money
	ItemCount int
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Item(id string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	out := c
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}
