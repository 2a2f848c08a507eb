package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/travels/domain/models"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/authservice"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/catalogservice"
	"github.com/Leopold1975/travel_catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	serv           *http.Server
	catalogService CatalogService
	authService    AuthService
}

type CatalogService interface {
	ListTravels(context.Context, url.Values) ([]models.Travel, catalogservice.Page, error)
	ListTours(context.Context, string, url.Values) ([]models.Tour, catalogservice.Page, error)
	CreateTravel(context.Context, catalogservice.CreateTravelRequest) (models.Travel, error)
	CreateTour(context.Context, string, catalogservice.CreateTourRequest) (models.Tour, error)
	Shutdown(context.Context) error
}

type AuthService interface {
	Login(context.Context, string, string) (string, error)
	Authenticate(string) (*models.User, error)
	Authorize(*models.User, string) error
}

func New(cfg config.Server, cs CatalogService, as AuthService, lg logger.Logger) *Server {
	var s Server

	s.catalogService = cs
	s.authService = as

	r := chi.NewRouter()
	r.Use(loggingMiddleware(lg))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/travels", s.GetTravels)
		r.Get("/travels/{slug}/tours", s.GetTours)
		r.Post("/auth/login", s.PostLogin)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/travels", s.PostTravel)
			r.Post("/travels/{slug}/tours", s.PostTour)
		})
	})

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &s
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}

// Список публичных путешествий с пагинацией
// (GET /travels).
func (s *Server) GetTravels(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	travels, page, err := s.catalogService.ListTravels(r.Context(), r.URL.Query())
	if err != nil {
		handleServiceError(w, err)

		return
	}

	resp := ListResponse{
		Data: toTravelResponses(travels),
		Meta: toMeta(page),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Список туров путешествия с фильтрацией, сортировкой и пагинацией
// (GET /travels/{slug}/tours).
func (s *Server) GetTours(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	slug := chi.URLParam(r, "slug")

	tours, page, err := s.catalogService.ListTours(r.Context(), slug, r.URL.Query())
	if err != nil {
		handleServiceError(w, err)

		return
	}

	resp := ListResponse{
		Data: toTourResponses(tours),
		Meta: toMeta(page),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// Создание путешествия, требует роль admin
// (POST /admin/travels).
func (s *Server) PostTravel(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	principal, err := s.principal(r)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	if err := s.authService.Authorize(principal, models.RoleAdmin); err != nil {
		handleServiceError(w, err)

		return
	}

	var req catalogservice.CreateTravelRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	travel, err := s.catalogService.CreateTravel(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)

	resp := SingleResponse{Data: toTravelResponse(travel)}

	json.NewEncoder(w).Encode(resp) //nolint:errcheck,errchkjson
}

// Создание тура внутри путешествия, требует роль admin
// (POST /admin/travels/{slug}/tours).
func (s *Server) PostTour(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	principal, err := s.principal(r)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	if err := s.authService.Authorize(principal, models.RoleAdmin); err != nil {
		handleServiceError(w, err)

		return
	}

	var req catalogservice.CreateTourRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	slug := chi.URLParam(r, "slug")

	tour, err := s.catalogService.CreateTour(r.Context(), slug, req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusCreated)

	resp := SingleResponse{Data: toTourResponse(tour)}

	json.NewEncoder(w).Encode(resp) //nolint:errcheck,errchkjson
}

// Аутентификация пользователя
// (POST /auth/login).
func (s *Server) PostLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	var req authservice.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, fmt.Errorf("decode error: %w", err), http.StatusBadRequest)

		return
	}

	token, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	resp := AuthUserResponse{Token: token}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		handleError(w, fmt.Errorf("encode error: %w", err), http.StatusInternalServerError)

		return
	}
}

// principal resolves the acting principal from the Authorization
// header. No header means an anonymous request, which the gate turns
// into 401 on protected paths.
func (s *Server) principal(r *http.Request) (*models.User, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, nil //nolint:nilnil
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, authservice.ErrUnauthenticated
	}

	return s.authService.Authenticate(strings.TrimSpace(parts[1]))
}
