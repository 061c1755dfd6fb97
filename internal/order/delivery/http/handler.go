package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	catalog "github.com/kh199/add-product-to-order/internal/catalog/domain"
	"github.com/kh199/add-product-to-order/internal/order/domain"
	"github.com/kh199/add-product-to-order/internal/order/usecase/command"
	"github.com/kh199/add-product-to-order/internal/order/usecase/query"
	"github.com/kh199/add-product-to-order/pkg/logger"
)

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	addProduct     *command.AddProductHandler
	getLine        *query.GetLineHandler
	listLines      *query.ListLinesHandler
	customerTotals *query.CustomerTotalsHandler
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	addProduct *command.AddProductHandler,
	getLine *query.GetLineHandler,
	listLines *query.ListLinesHandler,
	customerTotals *query.CustomerTotalsHandler,
) *OrderHandler {
	return &OrderHandler{
		addProduct:     addProduct,
		getLine:        getLine,
		listLines:      listLines,
		customerTotals: customerTotals,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OrderOut mirrors the wire contract of the add-product operation:
// amount is the line's new total after the merge.
type OrderOut struct {
	OrderID        uint `json:"order_id"`
	NomenclatureID uint `json:"nomenclature_id"`
	Amount         int  `json:"amount"`
}

// errorStatus is the single place the service maps error kinds onto
// response codes; the usecases never see transport vocabulary.
var errorStatus = []struct {
	err    error
	status int
}{
	{catalog.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrInvalidID, http.StatusBadRequest},
	{catalog.ErrProductNotFound, http.StatusNotFound},
	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrLineNotFound, http.StatusNotFound},
	{catalog.ErrInsufficientStock, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusServiceUnavailable},
	{domain.ErrPersistence, http.StatusInternalServerError},
}

func statusForError(err error) int {
	for _, entry := range errorStatus {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

// AddProduct handles POST /api/orders/add_product
func (h *OrderHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NomenclatureID uint `json:"nomenclature_id"`
		OrderID        uint `json:"order_id"`
		Amount         int  `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	line, err := h.addProduct.Handle(r.Context(), command.AddProductCommand{
		OrderID:        req.OrderID,
		NomenclatureID: req.NomenclatureID,
		Amount:         req.Amount,
	})
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.Error(r.Context()).
				Err(err).
				Uint("order_id", req.OrderID).
				Uint("nomenclature_id", req.NomenclatureID).
				Msg("Failed to add product to order")
		}
		respondJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product added to order",
		Data: OrderOut{
			OrderID:        line.OrderID,
			NomenclatureID: line.NomenclatureID,
			Amount:         line.Amount,
		},
	})
}

// GetLine handles GET /api/orders/{order_id}/items/{nomenclature_id}
func (h *OrderHandler) GetLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err1 := strconv.ParseUint(vars["order_id"], 10, 32)
	nomenclatureID, err2 := strconv.ParseUint(vars["nomenclature_id"], 10, 32)
	if err1 != nil || err2 != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid identifier",
		})
		return
	}

	line, err := h.getLine.Handle(r.Context(), query.GetLineQuery{
		OrderID:        uint(orderID),
		NomenclatureID: uint(nomenclatureID),
	})
	if err != nil {
		respondJSON(w, statusForError(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    line,
	})
}

// ListLines handles GET /api/orders/{order_id}/items
func (h *OrderHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseUint(vars["order_id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid order ID",
		})
		return
	}

	lines, err := h.listLines.Handle(r.Context(), query.ListLinesQuery{OrderID: uint(orderID)})
	if err != nil {
		respondJSON(w, statusForError(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    lines,
	})
}

// CustomerTotals handles GET /api/orders/report/customer-totals
func (h *OrderHandler) CustomerTotals(w http.ResponseWriter, r *http.Request) {
	top, _ := strconv.Atoi(r.URL.Query().Get("top"))

	totals, err := h.customerTotals.Handle(r.Context(), query.CustomerTotalsQuery{Top: top})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build customer totals report")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build report",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    totals,
	})
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/orders/add_product", h.AddProduct).Methods("POST")
	router.HandleFunc("/api/orders/report/customer-totals", h.CustomerTotals).Methods("GET")
	router.HandleFunc("/api/orders/{order_id}/items", h.ListLines).Methods("GET")
	router.HandleFunc("/api/orders/{order_id}/items/{nomenclature_id}", h.GetLine).Methods("GET")
}

// RegisterHealthCheck registers the health check endpoint
func (h *OrderHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Order service is healthy",
		})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
