package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nhath/ezquery/internal/db"
	"github.com/nhath/ezquery/internal/result"
)

type handlers struct {
	executor db.Executor
	logger   *zap.Logger
	maxBody  int64
}

// queryResponse is the success body of POST /api/data/query
type queryResponse struct {
	Columns         []string     `json:"columns"`
	Rows            []result.Row `json:"rows"`
	ExecutionTimeMs int64        `json:"executionTimeMs"`
	TotalRows       int          `json:"totalRows"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req db.Request
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.executor.Execute(r.Context(), req)
	if err != nil {
		var qErr *db.QueryError
		switch {
		case db.IsRejection(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &qErr):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			h.logger.Error("execution failed",
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal execution error")
		}
		return
	}

	shaped := result.FromResponse(resp)
	writeJSON(w, http.StatusOK, queryResponse{
		Columns:         shaped.Columns,
		Rows:            shaped.Rows,
		ExecutionTimeMs: shaped.ExecutionTimeMs(),
		TotalRows:       shaped.TotalRows,
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
