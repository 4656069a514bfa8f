package api

import (
	"net/http"

	"github.com/datachat/datachat/internal/catalog"
)

type operationsResponse struct {
	Operations []catalog.Operation `json:"operations"`
}

func handleListOperations(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Registry == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "CATALOG_NOT_CONFIGURED", "operation catalog is not configured", false, nil)
		return
	}
	writeJSON(w, http.StatusOK, operationsResponse{Operations: deps.Registry.List()})
}
