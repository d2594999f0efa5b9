// Package sessions saves and loads intake sessions.
package sessions

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"modelrisk_intake/pkg/api/respond"
	"modelrisk_intake/pkg/core/sanitize"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/core/store"
	"modelrisk_intake/pkg/models"
)

// SaveRequest is the body of POST /api/sessions. FieldUpdates are sanitized
// and applied to IntakeData before the session is stored.
type SaveRequest struct {
	ID           string                  `json:"id,omitempty"`
	BankName     string                  `json:"bankName"`
	IntakeData   models.IntakeData       `json:"intakeData"`
	Documents    []models.ParsedDocument `json:"documents"`
	FieldUpdates []interface{}           `json:"fieldUpdates,omitempty"`
}

type Handler struct {
	Repo    *store.SessionRepo
	catalog *schema.Catalog
	logger  *zap.Logger
}

func NewHandler(repo *store.SessionRepo, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Repo: repo, catalog: schema.Default(), logger: logger}
}

// Register mounts the session routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/sessions", h.HandleSave)
	r.Get("/api/sessions/{id}", h.HandleGet)
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	data := req.IntakeData
	if data == nil {
		data = models.IntakeData{}
	}
	data.Apply(sanitize.Sanitize(h.catalog, req.FieldUpdates))

	sess := &models.Session{
		ID:         req.ID,
		BankName:   req.BankName,
		IntakeData: data,
		Documents:  req.Documents,
	}
	if req.ID != "" {
		if prev, err := h.Repo.Get(r.Context(), req.ID); err == nil {
			sess.CreatedAt = prev.CreatedAt
		}
	}

	saved, err := h.Repo.Save(r.Context(), sess)
	if err != nil {
		h.logger.Error("session save failed", zap.String("id", req.ID), zap.Error(err))
		if errors.Is(err, store.ErrInvalidSessionID) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Error(w, http.StatusInternalServerError, "Failed to save session")
		return
	}
	respond.JSON(w, http.StatusOK, saved)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			respond.Error(w, http.StatusNotFound, "Session not found")
			return
		}
		h.logger.Error("session load failed", zap.String("id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	respond.JSON(w, http.StatusOK, sess)
}
