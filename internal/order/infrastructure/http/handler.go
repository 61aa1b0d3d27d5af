package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalogapp "github.com/storecraft/sales-order-service/internal/catalog/application"
	customerapp "github.com/storecraft/sales-order-service/internal/customer/application"
	"github.com/storecraft/sales-order-service/internal/order/application"
	"github.com/storecraft/sales-order-service/internal/order/domain"
)

// Handler exposes order creation plus the thin customer/product surfaces
// around it.
type Handler struct {
	log       *slog.Logger
	orders    *application.Service
	customers *customerapp.Service
	catalog   *catalogapp.Service
	validate  *validator.Validate
	tracer    trace.Tracer
}

func NewHandler(log *slog.Logger, orders *application.Service, customers *customerapp.Service, catalog *catalogapp.Service) *Handler {
	return &Handler{
		log:       log,
		orders:    orders,
		customers: customers,
		catalog:   catalog,
		validate:  validator.New(),
		tracer:    otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/customers", h.createCustomer)
	r.Post("/products", h.createProduct)
	return r
}

type orderLineReq struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type createOrderReq struct {
	CustomerID string         `json:"customer_id" validate:"required"`
	Products   []orderLineReq `json:"products" validate:"required,min=1,dive"`
}

type orderLineResp struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderResp struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Lines      []orderLineResp `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toOrderResp(o domain.Order) orderResp {
	lines := make([]orderLineResp, len(o.Lines))
	for i, ln := range o.Lines {
		lines[i] = orderLineResp{ProductID: ln.ProductID, Quantity: ln.Quantity, UnitPrice: ln.UnitPrice}
	}
	return orderResp{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Lines:      lines,
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	lines := make([]domain.LineRequest, len(req.Products))
	for i, p := range req.Products {
		lines[i] = domain.LineRequest{ProductID: p.ID, Quantity: p.Quantity}
	}

	o, err := h.orders.CreateOrder(ctx, domain.OrderRequest{CustomerID: req.CustomerID, Lines: lines})
	if err != nil {
		h.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResp(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.orders.GetOrder(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found", nil)
		return
	}
	if err != nil {
		h.log.Error("get order failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResp(o))
}

type createCustomerReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCustomer")
	defer span.End()

	var req createCustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	c, err := h.customers.CreateCustomer(ctx, req.Name, req.Email)
	if errors.Is(err, customerapp.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err != nil {
		h.log.Error("create customer failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID, "name": c.Name, "email": c.Email})
}

type createProductReq struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateProduct")
	defer span.End()

	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	p, err := h.catalog.CreateProduct(ctx, req.Name, req.Price, req.Quantity)
	if errors.Is(err, catalogapp.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err != nil {
		h.log.Error("create product failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       p.ID,
		"name":     p.Name,
		"price":    p.Price,
		"quantity": p.Stock,
	})
}

// writeOrderError maps rejections onto statuses: stale or raced stock is
// retryable and gets 409, bad references get 422, everything outside the
// taxonomy is a 400 caller error or a 500.
func (h *Handler) writeOrderError(w http.ResponseWriter, err error) {
	var rej *domain.RejectedError
	if errors.As(err, &rej) {
		status := http.StatusUnprocessableEntity
		if rej.Reason == domain.ReasonOutOfStock {
			status = http.StatusConflict
		}
		writeError(w, status, string(rej.Reason), rej.ProductIDs)
		return
	}
	if errors.Is(err, domain.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	h.log.Error("create order failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, productIDs []string) {
	body := map[string]any{"error": msg}
	if len(productIDs) > 0 {
		body["product_ids"] = productIDs
	}
	writeJSON(w, status, body)
}
