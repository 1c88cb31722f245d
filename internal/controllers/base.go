package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/drstein77/cartfolio/internal/compress"
	"github.com/drstein77/cartfolio/internal/middleware"
	"github.com/drstein77/cartfolio/internal/models"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const exportFileName = "cart.json"

// maxImportBytes caps the archive body accepted by the import route.
const maxImportBytes = 1 << 20

// Cart interface for cart operations
type Cart interface {
	Load(context.Context) models.Cart
	Replace(context.Context, models.Cart) models.Cart
	Add(ctx context.Context, productID int64, quantity int)
	Remove(ctx context.Context, productID int64)
	SetQuantity(ctx context.Context, productID int64, quantity int)
	Clear(context.Context)
	Total(ctx context.Context, catalog []models.Product) int64
	ItemCount(context.Context) int
	Contains(ctx context.Context, productID int64) bool
	QuantityOf(ctx context.Context, productID int64) int
}

// Log interface for logging
type Log interface {
	Info(string, ...zapcore.Field)
}

// BaseController struct for handling requests
type BaseController struct {
	cart Cart
	log  Log
}

// NewBaseController creates a new BaseController instance
func NewBaseController(cart Cart, log Log) *BaseController {
	return &BaseController{
		cart: cart,
		log:  log,
	}
}

// Route sets up the routes for the BaseController
func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()

	r.Route("/api/v0/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Get("/count", h.getCount)
		r.Post("/total", h.postTotal)
		r.Post("/items", h.postItem)
		r.Put("/items/{id}", h.putItem)
		r.Delete("/items/{id}", h.deleteItem)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ArchiveTypeMiddleware)
			r.Get("/export", h.getExport)
			r.Post("/import", h.postImport)
		})

		r.Get("/{id}", h.getItem)
	})

	return r
}

func (h *BaseController) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cart.Load(r.Context()))
}

func (h *BaseController) clearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *BaseController) getCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.CountResponse{Count: h.cart.ItemCount(r.Context())})
}

func (h *BaseController) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	writeJSON(w, http.StatusOK, models.ItemResponse{
		ID:       id,
		Contains: h.cart.Contains(ctx, id),
		Quantity: h.cart.QuantityOf(ctx, id),
	})
}

func (h *BaseController) postTotal(w http.ResponseWriter, r *http.Request) {
	var catalog []models.Product
	if err := json.NewDecoder(r.Body).Decode(&catalog); err != nil {
		http.Error(w, fmt.Sprintf("Invalid catalog: %v", err), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, models.TotalResponse{Total: h.cart.Total(r.Context(), catalog)})
}

func (h *BaseController) postItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid item: %v", err), http.StatusBadRequest)
		return
	}
	if req.ID == nil {
		http.Error(w, "Product id is required", http.StatusBadRequest)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		http.Error(w, "Quantity must be positive", http.StatusBadRequest)
		return
	}

	h.cart.Add(r.Context(), *req.ID, quantity)
	w.WriteHeader(http.StatusNoContent)
}

func (h *BaseController) putItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var req models.QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid quantity: %v", err), http.StatusBadRequest)
		return
	}

	h.cart.SetQuantity(r.Context(), id, req.Quantity)
	w.WriteHeader(http.StatusNoContent)
}

func (h *BaseController) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	h.cart.Remove(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *BaseController) getExport(w http.ResponseWriter, r *http.Request) {
	kind := middleware.ArchiveType(r.Context())
	data, err := json.Marshal(h.cart.Load(r.Context()))
	if err != nil {
		http.Error(w, "Failed to encode cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", compress.ContentType(kind))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cart.%s"`, kind))

	aw, err := compress.NewWriter(kind, w, exportFileName)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create archive: %v", err), http.StatusInternalServerError)
		return
	}
	if _, err := aw.Write(data); err != nil {
		h.log.Info("Failed to write export", zap.Error(err))
		return
	}
	if err := aw.Close(); err != nil {
		h.log.Info("Failed to finish export", zap.Error(err))
	}
}

func (h *BaseController) postImport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	kind := middleware.ArchiveType(r.Context())
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	ar, err := compress.NewReader(kind, body, exportFileName)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read archive: %v", err), http.StatusBadRequest)
		return
	}
	defer ar.Close()

	data, err := io.ReadAll(ar)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read archive: %v", err), http.StatusBadRequest)
		return
	}
	var c models.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		http.Error(w, fmt.Sprintf("Invalid cart: %v", err), http.StatusBadRequest)
		return
	}

	imported := h.cart.Replace(r.Context(), c)
	h.log.Info("Cart imported", zap.String("archiveType", kind), zap.Int("entries", len(imported)))
	writeJSON(w, http.StatusOK, imported)
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
