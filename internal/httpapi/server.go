// Package httpapi exposes the generation pipeline over HTTP with
// JWT-authenticated endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rpjhariharan/newscraft/internal/media"
	"github.com/rpjhariharan/newscraft/internal/pipeline"
	"github.com/rpjhariharan/newscraft/internal/session"
	"github.com/rpjhariharan/newscraft/pkg/models"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// Generator is the pipeline surface the API needs.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (models.Entry, error)
	Refine(ctx context.Context, req pipeline.Request, last models.Entry, instruction string) (models.Entry, error)
	Hashtags(ctx context.Context, query, platform string) (string, error)
}

// Server holds the API state. User accounts, rate limits and per-user
// generation history all live in the session, so refinement always
// targets the caller's own last entry.
type Server struct {
	gen     Generator
	session *session.Session
	secret  []byte
	now     func() time.Time
}

// New creates an API server. The JWT secret must not be empty.
func New(gen Generator, sess *session.Session, jwtSecret string) (*Server, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &Server{
		gen:     gen,
		session: sess,
		secret:  []byte(jwtSecret),
		now:     time.Now,
	}, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/options", s.handleOptions)
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/logout", s.handleLogout)
		r.Post("/generate", s.handleGenerate)
		r.Post("/refine", s.handleRefine)
		r.Get("/hashtags", s.handleHashtags)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second, // generation calls out to the model
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error string `json:"error"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type generateRequest struct {
	Query        string `json:"query"`
	Tone         string `json:"tone"`
	Format       string `json:"format"`
	Platform     string `json:"platform"`
	MemeTemplate string `json:"meme_template,omitempty"`
}

type refineRequest struct {
	Instruction string `json:"instruction"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tones":          models.Tones,
		"platforms":      models.Platforms,
		"formats":        []string{"text", "image", "meme", "video"},
		"meme_templates": media.MemeTemplateNames(),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	switch err := s.session.Register(req.Username, req.Password); {
	case errors.Is(err, session.ErrEmptyCredentials):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrDuplicateUsername):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.session.Login(req.Username, req.Password); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	token, err := s.issueToken(req.Username)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to issue token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.session.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Format == "" {
		req.Format = "text"
	}

	if !s.session.Allow(username) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: fmt.Sprintf("%s (%d per rolling 24 hours)", session.ErrRateLimited, session.DailyLimit),
		})
		return
	}

	entry, err := s.gen.Generate(r.Context(), pipeline.Request{
		Username:     username,
		Query:        req.Query,
		Tone:         req.Tone,
		Format:       models.Format(req.Format),
		Platform:     req.Platform,
		MemeTemplate: req.MemeTemplate,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.session.Record(username)
	s.session.Append(username, entry)
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())

	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	last, err := s.session.Last(username)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "nothing to refine yet"})
		return
	}

	if !s.session.Allow(username) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: fmt.Sprintf("%s (%d per rolling 24 hours)", session.ErrRateLimited, session.DailyLimit),
		})
		return
	}

	entry, err := s.gen.Refine(r.Context(), pipeline.Request{Username: username}, last, req.Instruction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.session.Record(username)
	s.session.Append(username, entry)
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleHashtags(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	platform := strings.TrimSpace(r.URL.Query().Get("platform"))

	tags, err := s.gen.Hashtags(r.Context(), query, platform)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hashtags": tags})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())
	entries := s.session.History(username)
	if entries == nil {
		entries = []models.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) issueToken(username string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"exp":      now.Add(TokenTTL).Unix(),
		"iat":      now.Unix(),
		"jti":      uuid.NewString(),
	})
	return token.SignedString(s.secret)
}

type contextKey string

const usernameKey contextKey = "username"

func usernameFrom(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}

// requireAuth validates the bearer token and stores the username on
// the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: session.ErrNotAuthenticated.Error()})
			return
		}

		token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		}, jwt.WithTimeFunc(s.now))
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token claims"})
			return
		}
		username, _ := claims["username"].(string)
		if username == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token claims"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}
