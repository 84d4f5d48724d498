package profile

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the profile API router:
//
//	GET  /api/profile  returns the stored record, or a zeroed default
//	POST /api/profile  upserts the one record (id fixed at 1)
func NewRouter(store *Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", h.getProfile)
		r.Post("/profile", h.upsertProfile)
	})
	return r
}

type handler struct {
	store  *Store
	logger *slog.Logger
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get()
	if err != nil {
		h.logger.Error("failed to load profile", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *handler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.store.Upsert(p)
	if err != nil {
		h.logger.Error("failed to save profile", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	h.logger.Info("profile updated", "display_name", saved.DisplayName)
	respondWithJSON(w, http.StatusOK, saved)
}

// respondWithJSON writes a JSON response with the given status code and data.
func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondWithError writes a JSON error response.
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, errorResponse{Error: message})
}
