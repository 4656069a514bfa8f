package api

import (
	"net/http"

	"github.com/datachat/datachat/internal/schema"
)

type schemaTable struct {
	Name    string          `json:"name"`
	Columns []schema.Column `json:"columns"`
}

type schemaResponse struct {
	Tables []schemaTable `json:"tables"`
}

func handleDescribeSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Introspector == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "schema introspection is not configured", false, nil)
		return
	}

	snapshot, err := deps.Introspector.Describe(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_ERROR", "failed to introspect database schema", true, map[string]any{"details": err.Error()})
		return
	}

	tables := make([]schemaTable, 0, len(snapshot.Tables))
	for _, name := range snapshot.TableNames() {
		tables = append(tables, schemaTable{Name: name, Columns: snapshot.Tables[name]})
	}
	writeJSON(w, http.StatusOK, schemaResponse{Tables: tables})
}
