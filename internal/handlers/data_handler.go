package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MEDSABRY98/BHS-sub001/internal/models"
	"github.com/MEDSABRY98/BHS-sub001/internal/services"
)

type DataHandler struct {
	ingestion *services.IngestionService
}

func NewDataHandler(ingestion *services.IngestionService) *DataHandler {
	return &DataHandler{ingestion: ingestion}
}

func (h *DataHandler) IngestTransactions(w http.ResponseWriter, r *http.Request) {
	var inputs []services.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(inputs) == 0 {
		respondWithError(w, http.StatusBadRequest, "No transactions provided")
		return
	}

	result, err := h.ingestion.IngestTransactions(inputs)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusPartialContent
	}
	respondWithJSON(w, status, result)
}

func (h *DataHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batch_id"]
	if batchID == "" {
		respondWithError(w, http.StatusBadRequest, "Batch ID is required")
		return
	}

	removed, err := h.ingestion.DeleteBatch(batchID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"batch_id": batchID,
		"removed":  removed,
	})
}

var refKindByPath = map[string]string{
	"closed-customers":      models.RefClosedCustomers,
	"semi-closed-customers": models.RefSemiClosedCustomers,
	"customer-emails":       models.RefCustomerEmails,
}

func (h *DataHandler) ReplaceCustomerRefs(w http.ResponseWriter, r *http.Request) {
	kind, ok := refKindByPath[mux.Vars(r)["kind"]]
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown reference list")
		return
	}

	var names []string
	if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.ingestion.ReplaceCustomerRefs(kind, names); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"kind":  kind,
		"count": len(names),
	})
}

func (h *DataHandler) ReplaceOverridePairs(w http.ResponseWriter, r *http.Request) {
	var pairs []models.OverridePair
	if err := json.NewDecoder(r.Body).Decode(&pairs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.ingestion.ReplaceOverridePairs(pairs); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"count": len(pairs)})
}
