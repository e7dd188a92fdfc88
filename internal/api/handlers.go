// Package api exposes the rental ledger over HTTP with JSON bodies.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/rental-ledger/internal/catalog"
	"github.com/sheikh-saqib/rental-ledger/internal/ledger"
	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

type RentalService interface {
	Rent(ctx context.Context, id int, title, customerID string, pricePerDay decimal.Decimal) (models.ActiveRental, error)
	Return(ctx context.Context, id int) (models.CompletedReturn, bool, error)
	Status(ctx context.Context, id int) (ledger.Status, error)
}

type Handler struct {
	rentals RentalService
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewHandler(rentals RentalService, cat *catalog.Catalog, logger *slog.Logger) *Handler {
	return &Handler{rentals: rentals, catalog: cat, logger: logger}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.health)
	mux.HandleFunc("/catalog", h.listCatalog)
	mux.HandleFunc("/rentals", h.rent)
	mux.HandleFunc("/returns", h.returnItem)
	mux.HandleFunc("/rentals/status", h.status)
	return mux
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.All())
}

func (h *Handler) rent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID          int             `json:"id"`
		CustomerID  string          `json:"customer_id"`
		PricePerDay decimal.Decimal `json:"price_per_day"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, ok := h.catalog.Get(req.ID)
	if !ok {
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}
	// Taking the book off the shelf first keeps two requests from renting it twice.
	if !h.catalog.MarkRented(req.ID) {
		http.Error(w, "book not in stock", http.StatusConflict)
		return
	}

	rental, err := h.rentals.Rent(r.Context(), req.ID, item.Title, req.CustomerID, req.PricePerDay)
	if err != nil {
		h.catalog.MarkReturned(req.ID)
	}
	if errors.Is(err, ledger.ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.serverError(w, "rent", err)
		return
	}

	writeJSON(w, http.StatusCreated, rental)
}

func (h *Handler) returnItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID int `json:"id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID <= 0 {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ret, found, err := h.rentals.Return(r.Context(), req.ID)
	if err != nil {
		h.serverError(w, "return", err)
		return
	}
	if !found {
		http.Error(w, "book not found among active rentals", http.StatusNotFound)
		return
	}
	h.catalog.MarkReturned(req.ID)

	writeJSON(w, http.StatusOK, ret)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		http.Error(w, "id must be a positive integer", http.StatusBadRequest)
		return
	}

	st, err := h.rentals.Status(r.Context(), id)
	if err != nil {
		h.serverError(w, "status", err)
		return
	}

	response := struct {
		Status string `json:"status"`
		Record any    `json:"record,omitempty"`
	}{Status: "NOT_FOUND"}

	switch st := st.(type) {
	case ledger.Active:
		response.Status, response.Record = "ACTIVE", st.Rental
	case ledger.Returned:
		response.Status, response.Record = "RETURNED", st.Return
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("ledger operation failed", "op", op, "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
