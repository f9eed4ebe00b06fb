package http

import (
	"time"

	"github.com/nikolayk812/happycart-demo/internal/checkout"
	"github.com/nikolayk812/happycart-demo/internal/domain"
)

type ProductDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
}

type BusinessDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Variant     string       `json:"variant"`
	Products    []ProductDTO `json:"products"`
}

type CartItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Business string `json:"business"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type CartDTO struct {
	Items        []CartItemDTO `json:"items"`
	Total        string        `json:"total"`
	TotalDisplay string        `json:"total_display"`
	Currency     string        `json:"currency"`
	ItemCount    int           `json:"item_count"`
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type NoticeDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive,omitempty"`
}

type CameraStatusDTO struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

type CapturedPhotoDTO struct {
	Filename  string `json:"filename"`
	DataURI   string `json:"data_uri"`
	Persisted bool   `json:"persisted"`
}

type ReceiptDTO struct {
	ID            string        `json:"id"`
	Items         []CartItemDTO `json:"items"`
	Total         string        `json:"total"`
	TotalDisplay  string        `json:"total_display"`
	Currency      string        `json:"currency"`
	ItemCount     int           `json:"item_count"`
	PhotoFilename string        `json:"photo_filename,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type OutcomeDTO struct {
	State         string            `json:"state"`
	Reason        string            `json:"reason"`
	SaleConfirmed bool              `json:"sale_confirmed"`
	Receipt       *ReceiptDTO       `json:"receipt,omitempty"`
	Photo         *CapturedPhotoDTO `json:"photo,omitempty"`
	Notice        *NoticeDTO        `json:"notice,omitempty"`
}

type CheckoutDTO struct {
	FlowID     string            `json:"flow_id,omitempty"`
	Generation uint64            `json:"generation"`
	State      string            `json:"state"`
	Provider   string            `json:"provider,omitempty"`
	Camera     *CameraStatusDTO  `json:"camera,omitempty"`
	Photo      *CapturedPhotoDTO `json:"photo,omitempty"`
	Cart       CartDTO           `json:"cart"`
	Outcome    *OutcomeDTO       `json:"outcome,omitempty"`
	Notice     *NoticeDTO        `json:"notice,omitempty"`
}

type GalleryPhotoDTO struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Path     string `json:"path"`
}

type GalleryDTO struct {
	Photos []GalleryPhotoDTO `json:"photos"`
}

func toBusinessDTO(b domain.Business) BusinessDTO {
	products := make([]ProductDTO, 0, len(b.Products))
	for _, p := range b.Products {
		products = append(products, ProductDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.Amount.StringFixed(2),
			Currency:    p.Price.Currency.String(),
		})
	}

	return BusinessDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Variant:     string(b.Variant),
		Products:    products,
	}
}

func toCartItemDTOs(items []domain.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, CartItemDTO{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price.Amount.StringFixed(2),
			Business: item.Business,
			Variant:  string(item.Variant),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().Amount.StringFixed(2),
		})
	}
	return out
}

func toCartDTO(c domain.Cart) CartDTO {
	return CartDTO{
		Items:        toCartItemDTOs(c.Items),
		Total:        c.Total.Amount.StringFixed(2),
		TotalDisplay: c.Total.Display(),
		Currency:     c.Total.Currency.String(),
		ItemCount:    c.ItemCount,
	}
}

func toReceiptDTO(r domain.Receipt) ReceiptDTO {
	return ReceiptDTO{
		ID:            r.ID.String(),
		Items:         toCartItemDTOs(r.Items),
		Total:         r.Total.Amount.StringFixed(2),
		TotalDisplay:  r.Total.Display(),
		Currency:      r.Total.Currency.String(),
		ItemCount:     r.ItemCount,
		PhotoFilename: r.PhotoFilename,
		CreatedAt:     r.CreatedAt,
	}
}

func toNoticeDTO(n *checkout.Notice) *NoticeDTO {
	if n == nil {
		return nil
	}
	return &NoticeDTO{
		Title:       n.Title,
		Description: n.Description,
		Destructive: n.Destructive,
	}
}

func toCapturedPhotoDTO(p *domain.CapturedPhoto) *CapturedPhotoDTO {
	if p == nil {
		return nil
	}
	return &CapturedPhotoDTO{
		Filename:  p.Filename,
		DataURI:   p.DataURI,
		Persisted: p.Persisted,
	}
}

func toCheckoutDTO(s checkout.Snapshot) CheckoutDTO {
	dto := CheckoutDTO{
		Generation: s.Generation,
		State:      s.State.String(),
		Provider:   string(s.Provider),
		Photo:      toCapturedPhotoDTO(s.Photo),
		Cart:       toCartDTO(s.Cart),
		Notice:     toNoticeDTO(s.Notice),
	}
	if s.State != checkout.StateIdle {
		dto.FlowID = s.FlowID.String()
	}
	if s.Provider != domain.ProviderNone {
		dto.Camera = &CameraStatusDTO{
			Available: s.Status.Available,
			Message:   s.Status.Message,
			Error:     s.Status.Error,
		}
	}

	if o := s.Outcome; o != nil {
		outcome := &OutcomeDTO{
			State:         o.State.String(),
			Reason:        string(o.Reason),
			SaleConfirmed: o.SaleConfirmed(),
			Photo:         toCapturedPhotoDTO(o.Photo),
			Notice:        toNoticeDTO(o.Notice),
		}
		if o.Receipt != nil {
			receipt := toReceiptDTO(*o.Receipt)
			outcome.Receipt = &receipt
		}
		dto.Outcome = outcome
	}

	return dto
}
