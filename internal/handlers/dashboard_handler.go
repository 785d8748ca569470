package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MEDSABRY98/BHS-sub001/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	names, err := h.dashboard.ListCustomers(r.URL.Query().Get("filter"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"customers": names,
		"count":     len(names),
	})
}

func (h *DashboardHandler) CustomerSummary(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	agg, err := h.dashboard.CustomerSummary(name, asOf)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, agg)
}

func (h *DashboardHandler) CustomerRating(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	result, err := h.dashboard.CustomerRating(name, asOf)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *DashboardHandler) OpenItems(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if r.URL.Query().Get("view") == "net" {
		rows, err := h.dashboard.NetOnlyRows(name)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
		return
	}

	items, err := h.dashboard.OpenItems(name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *DashboardHandler) MonthlyBreakdown(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	breakdown, err := h.dashboard.MonthlyBreakdown(name, asOf)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, breakdown)
}

// parseAsOf reads the optional as_of query parameter that pins the engine's
// clock for reproducible results. Defaults to the current time.
func parseAsOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now(), true
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid as_of format. Use YYYY-MM-DD")
		return time.Time{}, false
	}
	return asOf, true
}
