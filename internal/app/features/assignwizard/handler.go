// internal/app/features/assignwizard/handler.go
package assignwizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/strataassign/internal/app/assign/expand"
	"github.com/dalemusser/strataassign/internal/app/assign/selection"
	"github.com/dalemusser/strataassign/internal/app/assign/submit"
	"github.com/dalemusser/strataassign/internal/app/assign/wizard"
	"github.com/dalemusser/strataassign/internal/app/system/limits"
	"github.com/dalemusser/strataassign/internal/app/system/timeouts"
	"github.com/dalemusser/strataassign/internal/app/system/wizardcookie"
	"github.com/dalemusser/strataassign/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the assignment wizard JSON API.
type Handler struct {
	Sessions  *wizard.Manager
	Ownership *wizardcookie.Ownership
	Log       *zap.Logger
}

// NewHandler constructs a wizard Handler.
func NewHandler(sessions *wizard.Manager, ownership *wizardcookie.Ownership, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions:  sessions,
		Ownership: ownership,
		Log:       logger,
	}
}

type ctxKey struct{}

// sessionFrom returns the session loaded by requireSession.
func sessionFrom(r *http.Request) *wizard.Session {
	s, _ := r.Context().Value(ctxKey{}).(*wizard.Session)
	return s
}

// requireSession resolves {id}, checks the caller's ownership cookie and
// puts the session on the request context.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, err := h.Sessions.Get(id)
		if err != nil {
			h.writeErr(w, err)
			return
		}
		if !h.Ownership.Owns(r, id) {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "session belongs to another browser"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
	})
}

type openRequest struct {
	Mode   string            `json:"mode"`
	Target models.TargetKind `json:"target"`
	Anchor *expand.Anchor    `json:"anchor"`
}

type openResponse struct {
	ID     string            `json:"id"`
	Mode   expand.Mode       `json:"mode"`
	Target models.TargetKind `json:"target,omitempty"`
}

// ServeOpen handles POST /sessions.
func (h *Handler) ServeOpen(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxControlBody)
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	mode, err := expand.ParseMode(req.Mode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s, err := h.Sessions.Open(wizard.Config{Mode: mode, Target: req.Target, Anchor: req.Anchor})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if err := h.Ownership.Grant(w, r, s.ID); err != nil {
		h.Log.Error("grant wizard ownership", zap.Error(err), zap.String("session", s.ID))
		_ = h.Sessions.Close(s.ID)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "could not open wizard"})
		return
	}
	writeJSON(w, http.StatusCreated, openResponse{ID: s.ID, Mode: mode, Target: req.Target})
}

// ServeSnapshot handles GET /sessions/{id}.
func (h *Handler) ServeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := sessionFrom(r).Snapshot()
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ServeClose handles DELETE /sessions/{id}.
func (h *Handler) ServeClose(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := h.Sessions.Close(s.ID); err != nil && !errors.Is(err, wizard.ErrSessionNotFound) {
		h.writeErr(w, err)
		return
	}
	if err := h.Ownership.Revoke(w, r, s.ID); err != nil {
		h.Log.Warn("revoke wizard ownership", zap.Error(err), zap.String("session", s.ID))
	}
	w.WriteHeader(http.StatusNoContent)
}

// level parses {level} or writes a 400.
func level(w http.ResponseWriter, r *http.Request) (selection.Level, bool) {
	l, err := selection.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return 0, false
	}
	return l, true
}

// ServeOptions handles GET /sessions/{id}/options/{level}.
func (h *Handler) ServeOptions(w http.ResponseWriter, r *http.Request) {
	l, ok := level(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "load "+l.String())
	defer cancel()

	st, err := sessionFrom(r).Options(ctx, l)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type toggleRequest struct {
	ID string `json:"id"`
}

// writeSelections answers a selection change with the changed level and
// every level after reconciliation.
func (h *Handler) writeSelections(w http.ResponseWriter, s *wizard.Session, l selection.Level, extra map[string]any) {
	all := s.Selections()
	resp := map[string]any{
		"selected":   nonNil(all[l]),
		"selections": byName(all),
	}
	for k, v := range extra {
		resp[k] = v
	}
	writeJSON(w, http.StatusOK, resp)
}

// ServeToggle handles POST /sessions/{id}/selection/{level}/toggle.
func (h *Handler) ServeToggle(w http.ResponseWriter, r *http.Request) {
	l, ok := level(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxControlBody)
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "body must be {\"id\": \"...\"}"})
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "reconcile "+l.String())
	defer cancel()

	s := sessionFrom(r)
	on, err := s.Toggle(ctx, l, req.ID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeSelections(w, s, l, map[string]any{"on": on})
}

// ServeSelectAll handles POST /sessions/{id}/selection/{level}/all.
func (h *Handler) ServeSelectAll(w http.ResponseWriter, r *http.Request) {
	l, ok := level(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "select all "+l.String())
	defer cancel()

	s := sessionFrom(r)
	if err := s.SelectAll(ctx, l); err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeSelections(w, s, l, nil)
}

// ServeClear handles DELETE /sessions/{id}/selection/{level}.
func (h *Handler) ServeClear(w http.ResponseWriter, r *http.Request) {
	l, ok := level(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "clear "+l.String())
	defer cancel()

	s := sessionFrom(r)
	if err := s.ClearAll(ctx, l); err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeSelections(w, s, l, nil)
}

// ServeDraft handles PUT /sessions/{id}/draft.
func (h *Handler) ServeDraft(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxDraftBody)
	var d models.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}
	if err := sessionFrom(r).SetDraft(d); err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type previewResponse struct {
	Count   int                       `json:"count"`
	Records []models.AssignmentRecord `json:"records"`
}

// ServePreview handles GET /sessions/{id}/preview.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "preview assignments")
	defer cancel()

	recs, err := sessionFrom(r).Preview(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{Count: len(recs), Records: recs})
}

// ServeSubmit handles POST /sessions/{id}/submit.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Submit(), h.Log, "submit assignments")
	defer cancel()

	s := sessionFrom(r)
	out, err := s.Submit(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.Ownership.Revoke(w, r, s.ID); err != nil {
		h.Log.Warn("revoke wizard ownership", zap.Error(err), zap.String("session", s.ID))
	}
	writeJSON(w, http.StatusOK, out)
}
