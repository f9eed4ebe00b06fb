package catalog

import (
	"errors"
	"fmt"

	"github.com/nikolayk812/happycart-demo/internal/domain"
	"golang.org/x/text/currency"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrProductNotFound  = errors.New("product not found")
)

// Store is the immutable product catalog. It is safe for concurrent use.
type Store struct {
	businesses []domain.Business
	byBusiness map[string]int
	byProduct  map[string]productRef
	combo      []domain.ItemCandidate
}

type productRef struct {
	business int
	product  int
}

// New builds the built-in catalog priced in unit.
func New(unit currency.Unit) (*Store, error) {
	businesses := make([]domain.Business, 0, len(businessSeeds))
	for _, bs := range businessSeeds {
		b := domain.Business{
			ID:          bs.id,
			Name:        bs.name,
			Description: bs.description,
			Variant:     bs.variant,
			Products:    make([]domain.Product, 0, len(bs.products)),
		}
		for _, ps := range bs.products {
			b.Products = append(b.Products, domain.Product{
				ID:          ps.id,
				Name:        ps.name,
				Description: ps.description,
				Price:       domain.NewMoney(ps.price, unit),
			})
		}
		businesses = append(businesses, b)
	}

	combo := make([]domain.ItemCandidate, 0, len(comboSeeds))
	for _, cs := range comboSeeds {
		combo = append(combo, domain.ItemCandidate{
			ID:       cs.id,
			Name:     cs.name,
			Price:    domain.NewMoney(cs.price, unit),
			Business: cs.business,
			Variant:  cs.variant,
		})
	}

	return NewFromBusinesses(businesses, combo)
}

// NewFromBusinesses indexes an arbitrary catalog. Product ids must be unique across all businesses
// because the cart uses them as its line key.
func NewFromBusinesses(businesses []domain.Business, combo []domain.ItemCandidate) (*Store, error) {
	s := &Store{
		businesses: businesses,
		byBusiness: make(map[string]int, len(businesses)),
		byProduct:  make(map[string]productRef),
		combo:      combo,
	}

	for bi, b := range businesses {
		if b.ID == "" {
			return nil, fmt.Errorf("business[%d] id is empty", bi)
		}
		if _, dup := s.byBusiness[b.ID]; dup {
			return nil, fmt.Errorf("business[%s] is duplicated", b.ID)
		}
		s.byBusiness[b.ID] = bi

		for pi, p := range b.Products {
			if p.ID == "" {
				return nil, fmt.Errorf("business[%s] product[%d] id is empty", b.ID, pi)
			}
			if p.Price.IsNegative() {
				return nil, fmt.Errorf("product[%s] price is negative", p.ID)
			}
			if prev, dup := s.byProduct[p.ID]; dup {
				return nil, fmt.Errorf("product[%s] is duplicated in businesses[%s, %s]",
					p.ID, businesses[prev.business].ID, b.ID)
			}
			s.byProduct[p.ID] = productRef{business: bi, product: pi}
		}
	}

	for _, c := range combo {
		if c.ID == "" {
			return nil, fmt.Errorf("combo item id is empty")
		}
		if c.Price.IsNegative() {
			return nil, fmt.Errorf("combo item[%s] price is negative", c.ID)
		}
	}

	return s, nil
}

func (s *Store) Businesses() []domain.Business {
	out := make([]domain.Business, len(s.businesses))
	copy(out, s.businesses)
	return out
}

func (s *Store) Business(id string) (domain.Business, error) {
	i, ok := s.byBusiness[id]
	if !ok {
		return domain.Business{}, fmt.Errorf("business[%s]: %w", id, ErrBusinessNotFound)
	}
	return s.businesses[i], nil
}

// Candidate resolves a product id into the shape the cart accepts.
func (s *Store) Candidate(productID string) (domain.ItemCandidate, error) {
	ref, ok := s.byProduct[productID]
	if !ok {
		return domain.ItemCandidate{}, fmt.Errorf("product[%s]: %w", productID, ErrProductNotFound)
	}

	b := s.businesses[ref.business]
	return b.Candidate(b.Products[ref.product]), nil
}

// Combo returns the "super combo" items in the order they are added to the cart.
func (s *Store) Combo() []domain.ItemCandidate {
	out := make([]domain.ItemCandidate, len(s.combo))
	copy(out, s.combo)
	return out
}
