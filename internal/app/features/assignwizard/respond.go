package assignwizard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/app/assign/submit"
	"github.com/dalemusser/strataassign/internal/app/assign/wizard"
	"go.uber.org/zap"
)

type errorBody struct {
	Error  string              `json:"error"`
	Fields []expand.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps wizard errors to status codes:
//
//	ValidationErrors      422 {error, fields}
//	ErrNothingToCreate    422 {error:"nothing to create"}
//	*submit.Error         502 {error:<collaborator message>}
//	unknown/closed        404
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	var verrs expand.ValidationErrors
	var serr *submit.Error
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verrs})
	case errors.Is(err, expand.ErrNothingToCreate):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: expand.ErrNothingToCreate.Error()})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: serr.Message})
	case errors.Is(err, wizard.ErrSessionNotFound), errors.Is(err, wizard.ErrSessionClosed):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "wizard session not found"})
	default:
		h.Log.Error("assign wizard request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func byName(sel map[selection.Level][]string) map[string][]string {
	out := make(map[string][]string, len(selection.Levels))
	for _, l := range selection.Levels {
		out[l.String()] = nonNil(sel[l])
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
