package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/MEDSABRY98/BHS-sub001/internal/services"
)

func SetupRouter(
	ingestion *services.IngestionService,
	dashboard *services.DashboardService,
	log zerolog.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(requestLogMiddleware(log))
	api.Use(jsonContentTypeMiddleware)

	dataHandler := NewDataHandler(ingestion)
	api.HandleFunc("/transactions", dataHandler.IngestTransactions).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{batch_id}", dataHandler.DeleteBatch).Methods(http.MethodDelete)
	api.HandleFunc("/reference/override-pairs", dataHandler.ReplaceOverridePairs).Methods(http.MethodPut)
	api.HandleFunc("/reference/{kind}", dataHandler.ReplaceCustomerRefs).Methods(http.MethodPut)

	dashboardHandler := NewDashboardHandler(dashboard)
	api.HandleFunc("/customers", dashboardHandler.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers/{name}/summary", dashboardHandler.CustomerSummary).Methods(http.MethodGet)
	api.HandleFunc("/customers/{name}/rating", dashboardHandler.CustomerRating).Methods(http.MethodGet)
	api.HandleFunc("/customers/{name}/open-items", dashboardHandler.OpenItems).Methods(http.MethodGet)
	api.HandleFunc("/customers/{name}/monthly", dashboardHandler.MonthlyBreakdown).Methods(http.MethodGet)

	return router
}

func requestLogMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Error marshaling JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
