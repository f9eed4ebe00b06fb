package domain

// Variant selects presentation styling only.
type Variant string

const (
	VariantPetStore   Variant = "pet-store"
	VariantBurgerKing Variant = "burger-king"
	VariantMcDonalds  Variant = "mcdonalds"
	VariantStarbucks  Variant = "starbucks"
	VariantLego       Variant = "lego"
	VariantRivertown  Variant = "rivertown"
	VariantRedRobin   Variant = "red-robin"
	VariantAnnasHouse Variant = "annas-house"
	VariantMacys      Variant = "macys"
)

type Product struct {
	ID          string
	Name        string
	Description string
	Price       Money
}

type Business struct {
	ID          string
	Name        string
	Description string
	Variant     Variant
	Products    []Product
}

func (b Business) Candidate(p Product) ItemCandidate {
	return ItemCandidate{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Business: b.Name,
		Variant:  b.Variant,
	}
}
