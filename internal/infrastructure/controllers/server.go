package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/commands"
	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// Server exposes the synchronisation commands over HTTP.
type Server struct {
	syncRepository   commands.SyncRepository
	syncOrganization commands.SyncOrganization
	store            repositories.ObjectRepository
}

type syncRepositoryRequest struct {
	URL string `json:"url"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// NewServer creates a new Server.
func NewServer(
	syncRepository commands.SyncRepository,
	syncOrganization commands.SyncOrganization,
	store repositories.ObjectRepository,
) *Server {
	return &Server{
		syncRepository:   syncRepository,
		syncOrganization: syncOrganization,
		store:            store,
	}
}

// Routes returns a chi.Router mounting every handler.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.getHealthz)
	r.Route("/api", func(r chi.Router) {
		r.Post("/repositories/sync", s.postRepositorySync)
		r.Post("/organizations/{source}/{name}/sync", s.postOrganizationSync)
		r.Get("/components/{id}", s.getComponent)
	})
	return r
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postRepositorySync(w http.ResponseWriter, r *http.Request) {
	var body syncRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "expected a JSON body with a url"})
		return
	}

	result, err := s.syncRepository.Execute(r.Context(), body.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) postOrganizationSync(w http.ResponseWriter, r *http.Request) {
	organisation, err := s.syncOrganization.Execute(r.Context(), chi.URLParam(r, "source"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, organisation)
}

func (s *Server) getComponent(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.Get(r.Context(), entities.KindComponent, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(record.Payload)
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrRepositoryNotFound),
		errors.Is(err, entities.ErrOrganisationNotFound),
		errors.Is(err, entities.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrUnknownSource):
		status = http.StatusBadRequest
	default:
		logger.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, messageResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warnf("Failed to write response: %v", err)
	}
}
