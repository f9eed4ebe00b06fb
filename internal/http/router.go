package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/happycart-demo/internal/cart"
	"github.com/nikolayk812/happycart-demo/internal/catalog"
	"github.com/nikolayk812/happycart-demo/internal/checkout"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"go.uber.org/zap"
)

type Deps struct {
	Logger           *zap.Logger
	CORSAllowOrigins []string

	Catalog  *catalog.Store
	Cart     *cart.Engine
	Checkout *checkout.Orchestrator
	// Gallery is optional; without it the gallery routes answer 503.
	Gallery  port.PhotoGallery
	Receipts port.ReceiptRepository
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(d.CORSAllowOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	catalogHandler := NewCatalogHandler(d.Catalog)
	cartHandler := NewCartHandler(d.Catalog, d.Cart)
	checkoutHandler := NewCheckoutHandler(d.Checkout, logger)
	galleryHandler := NewGalleryHandler(d.Gallery, logger)
	receiptHandler := NewReceiptHandler(d.Receipts, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/businesses", func(r chi.Router) {
			r.Get("/", catalogHandler.ListBusinesses)
			r.Get("/{businessID}", catalogHandler.GetBusiness)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Post("/combo", cartHandler.AddCombo)
			r.Put("/items/{productID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetCheckout)
			r.Post("/", checkoutHandler.Checkout)
			r.Post("/review", checkoutHandler.Review)
			r.Post("/close", checkoutHandler.Close)
			r.Route("/photo", func(r chi.Router) {
				r.Post("/", checkoutHandler.BeginPhotoCheckout)
				r.Post("/capture", checkoutHandler.Capture)
				r.Post("/retake", checkoutHandler.Retake)
				r.Post("/save", checkoutHandler.Save)
				r.Post("/skip", checkoutHandler.SkipPhoto)
			})
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", galleryHandler.ListPhotos)
			r.Delete("/{filename}", galleryHandler.DeletePhoto)
		})

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", receiptHandler.ListReceipts)
			r.Get("/{receiptID}", receiptHandler.GetReceipt)
		})
	})

	return r
}
