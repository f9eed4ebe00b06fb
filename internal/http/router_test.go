package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/happycart-demo/internal/capture"
	"github.com/nikolayk812/happycart-demo/internal/cart"
	"github.com/nikolayk812/happycart-demo/internal/catalog"
	"github.com/nikolayk812/happycart-demo/internal/checkout"
	"github.com/nikolayk812/happycart-demo/internal/domain"
	"github.com/nikolayk812/happycart-demo/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/currency"
)

type fakeGallery struct {
	mu     sync.Mutex
	photos []domain.Photo
	err    error
}

func (g *fakeGallery) ListPhotos(context.Context) ([]domain.Photo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return nil, g.err
	}
	return append([]domain.Photo(nil), g.photos...), nil
}

func (g *fakeGallery) DeletePhoto(_ context.Context, filename string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, p := range g.photos {
		if p.Filename == filename {
			g.photos = append(g.photos[:i], g.photos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("client.DeletePhoto: %w", capture.ErrPhotoNotFound)
}

type testServer struct {
	router  http.Handler
	engine  *cart.Engine
	gallery *fakeGallery
	device  *capture.TestPatternDevice
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)

	store, err := catalog.New(currency.USD)
	require.NoError(t, err)

	engine := cart.NewEngine(currency.USD, logger)
	receipts := repository.NewMemory()
	device := capture.NewTestPatternDevice(16, 16)
	selector := capture.NewSelector(nil, capture.NewLocalProvider(device, logger), logger)
	gallery := &fakeGallery{photos: []domain.Photo{
		{Filename: "customer_photo_2.jpg", URL: "/photos/customer_photo_2.jpg", Path: "/srv/photos/customer_photo_2.jpg"},
		{Filename: "customer_photo_1.jpg", URL: "/photos/customer_photo_1.jpg", Path: "/srv/photos/customer_photo_1.jpg"},
	}}

	router := NewRouter(Deps{
		Logger:           logger,
		CORSAllowOrigins: []string{"http://localhost:5173"},
		Catalog:          store,
		Cart:             engine,
		Checkout:         checkout.New(engine, selector, receipts, logger),
		Gallery:          gallery,
		Receipts:         receipts,
	})

	return testServer{
		router:  router,
		engine:  engine,
		gallery: gallery,
		device:  device,
	}
}

func (s testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/businesses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	businesses := decode[[]BusinessDTO](t, rec)
	require.Len(t, businesses, 9)
	assert.Equal(t, "pet-store", businesses[0].ID)
	require.Len(t, businesses[0].Products, 6)
	assert.Equal(t, "5.00", businesses[0].Products[0].Price)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "known business: ok",
			target:     "/api/businesses/burger-king",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown business: error",
			target:     "/api/businesses/nope",
			wantStatus: http.StatusNotFound,
			wantCode:   "business_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
			}
		})
	}
}

func TestCartRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/cart/items", AddItemRequestDTO{ProductID: "bk-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/cart/items", AddItemRequestDTO{ProductID: "bk-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	c := decode[CartDTO](t, rec)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "14.00", c.Total)
	assert.Equal(t, "$14.00", c.TotalDisplay)
	assert.Equal(t, 2, c.ItemCount)

	s.do(t, http.MethodPost, "/api/cart/items", AddItemRequestDTO{ProductID: "pet-1"})
	quantity := 0
	rec = s.do(t, http.MethodPut, "/api/cart/items/bk-1", UpdateQuantityRequestDTO{Quantity: &quantity})
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[CartDTO](t, rec)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "pet-1", c.Items[0].ID)
	assert.Equal(t, "5.00", c.Total)

	rec = s.do(t, http.MethodPost, "/api/cart/combo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[CartDTO](t, rec)
	assert.Equal(t, 6, c.ItemCount)
	assert.Equal(t, "32.00", c.Total)

	rec = s.do(t, http.MethodDelete, "/api/cart/items/pet-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[CartDTO](t, rec).ItemCount)

	rec = s.do(t, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c = decode[CartDTO](t, rec)
	assert.Empty(t, c.Items)
	assert.Equal(t, "0.00", c.Total)

	rec = s.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[CartDTO](t, rec).ItemCount)
}

func TestCartRoutes_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		target     string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown product: error",
			method:     http.MethodPost,
			target:     "/api/cart/items",
			body:       AddItemRequestDTO{ProductID: "nope"},
			wantStatus: http.StatusNotFound,
			wantCode:   "product_not_found",
		},
		{
			name:       "missing product id: error",
			method:     http.MethodPost,
			target:     "/api/cart/items",
			body:       AddItemRequestDTO{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_product_id",
		},
		{
			name:       "missing quantity: error",
			method:     http.MethodPut,
			target:     "/api/cart/items/bk-1",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_quantity",
		},
		{
			name:       "malformed body: error",
			method:     http.MethodPut,
			target:     "/api/cart/items/bk-1",
			body:       "quantity",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
		})
	}

	assert.True(t, s.engine.Snapshot().IsEmpty())
}

func TestCheckoutRoutes_EmptyCart(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/checkout", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "empty_cart", resp.Code)
	assert.Equal(t, "Cart is empty!", resp.Error)
	assert.Equal(t, "Add some items before checking out.", resp.Details)
}

func TestCheckoutRoutes_PhotoFlow(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/cart/items", AddItemRequestDTO{ProductID: "sb-1"})

	rec := s.do(t, http.MethodPost, "/api/checkout/review", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cart_review", decode[CheckoutDTO](t, rec).State)

	rec = s.do(t, http.MethodPost, "/api/checkout/photo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[CheckoutDTO](t, rec)
	assert.Equal(t, "capturing", dto.State)
	assert.Equal(t, "local", dto.Provider)
	require.NotNil(t, dto.Camera)
	assert.True(t, dto.Camera.Available)

	rec = s.do(t, http.MethodPost, "/api/checkout/photo/save", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", decode[ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/checkout/photo/capture", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decode[CheckoutDTO](t, rec)
	assert.Equal(t, "reviewing", dto.State)
	require.NotNil(t, dto.Photo)
	assert.Contains(t, dto.Photo.DataURI, "data:image/jpeg;base64,")
	require.NotNil(t, dto.Notice)
	assert.Equal(t, "Photo Captured! 📸", dto.Notice.Title)

	rec = s.do(t, http.MethodPost, "/api/checkout/photo/retake", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "capturing", decode[CheckoutDTO](t, rec).State)

	rec = s.do(t, http.MethodPost, "/api/checkout/photo/capture", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/checkout/photo/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decode[CheckoutDTO](t, rec)
	assert.Equal(t, "idle", dto.State)
	assert.Empty(t, dto.FlowID)
	assert.Zero(t, dto.Cart.ItemCount)
	require.NotNil(t, dto.Outcome)
	assert.Equal(t, "confirmed", dto.Outcome.State)
	assert.Equal(t, "photo_saved", dto.Outcome.Reason)
	assert.True(t, dto.Outcome.SaleConfirmed)
	require.NotNil(t, dto.Outcome.Photo)
	require.NotNil(t, dto.Outcome.Receipt)
	assert.Equal(t, 0, s.device.Active())

	rec = s.do(t, http.MethodGet, "/api/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "photo_saved", decode[CheckoutDTO](t, rec).Outcome.Reason)

	receiptID := dto.Outcome.Receipt.ID
	rec = s.do(t, http.MethodGet, "/api/receipts/"+receiptID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	receipt := decode[ReceiptDTO](t, rec)
	assert.Equal(t, receiptID, receipt.ID)
	assert.Equal(t, 1, receipt.ItemCount)
}

func TestCheckoutRoutes_SkipAndClose(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/cart/items", AddItemRequestDTO{ProductID: "pet-1"})

	rec := s.do(t, http.MethodPost, "/api/checkout/photo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/checkout/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[CheckoutDTO](t, rec)
	assert.Equal(t, "abandoned", dto.Outcome.Reason)
	assert.Equal(t, 1, dto.Cart.ItemCount)
	assert.Equal(t, 0, s.device.Active())

	rec = s.do(t, http.MethodPost, "/api/checkout/photo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/checkout/photo/skip", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto = decode[CheckoutDTO](t, rec)
	assert.Equal(t, "photo_skipped", dto.Outcome.Reason)
	require.NotNil(t, dto.Notice)
	assert.Equal(t, "Thank you for your pretend purchase of $5.00!", dto.Notice.Description)

	rec = s.do(t, http.MethodPost, "/api/checkout/photo/skip", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGalleryRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/gallery", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	gallery := decode[GalleryDTO](t, rec)
	require.Len(t, gallery.Photos, 2)
	assert.Equal(t, "customer_photo_2.jpg", gallery.Photos[0].Filename)

	rec = s.do(t, http.MethodDelete, "/api/gallery/customer_photo_2.jpg", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/gallery/customer_photo_2.jpg", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "photo_not_found", decode[ErrorResponse](t, rec).Code)

	s.gallery.err = fmt.Errorf("client.ListPhotos: %w", capture.ErrServiceUnavailable)
	rec = s.do(t, http.MethodGet, "/api/gallery", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGalleryRoutes_NotConfigured(t *testing.T) {
	router := NewRouter(Deps{})

	req := httptest.NewRequest(http.MethodGet, "/api/gallery", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReceiptRoutes_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "list: ok",
			target:     "/api/receipts",
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad limit: error",
			target:     "/api/receipts?limit=0",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_limit",
		},
		{
			name:       "bad id: error",
			target:     "/api/receipts/not-a-uuid",
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_receipt_id",
		},
		{
			name:       "unknown id: error",
			target:     "/api/receipts/" + uuid.NewString(),
			wantStatus: http.StatusNotFound,
			wantCode:   "receipt_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
