package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/syllabus-auditor/internal/config"
	"github.com/jonathan/syllabus-auditor/internal/identity"
	"github.com/jonathan/syllabus-auditor/internal/kv"
	"github.com/jonathan/syllabus-auditor/internal/ledger"
	"github.com/jonathan/syllabus-auditor/internal/oracle"
	"github.com/jonathan/syllabus-auditor/internal/resources"
	"github.com/jonathan/syllabus-auditor/internal/session"
)

// contextKey is a private type for request context values.
type contextKey string

const userIDKey contextKey = "userID"

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	oracle      oracle.Oracle
	identity    *identity.Store
	ledger      *ledger.Ledger
	sessions    *session.Repository
	enricher    *resources.Enricher
	jwtService  *JWTService
	authHandler *AuthHandler
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance over the given storage medium and oracle.
func New(cfg Config, store kv.Store, o oracle.Oracle) (*Server, error) {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	jwtService := NewJWTService(jwtConfig)

	s := &Server{
		oracle:     o,
		identity:   identity.NewStore(store),
		ledger:     ledger.New(store),
		sessions:   session.NewRepository(store),
		enricher:   resources.NewEnricher(),
		jwtService: jwtService,
	}
	s.authHandler = NewAuthHandler(s.identity, jwtService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /auth/logout", s.requireAuth(s.authHandler.Logout))

	// Audit endpoints
	mux.HandleFunc("GET /skills", s.requireAuth(s.handleSkills))
	mux.HandleFunc("POST /grade", s.requireAuth(s.handleGrade))
	mux.HandleFunc("POST /resources", s.requireAuth(s.handleResources))
	mux.HandleFunc("GET /quiz/{skill}", s.requireAuth(s.handleQuiz))
	mux.HandleFunc("POST /compass", s.requireAuth(s.handleCompass))

	// Session endpoints
	mux.HandleFunc("GET /sessions", s.requireAuth(s.handleListSessions))
	mux.HandleFunc("POST /sessions", s.requireAuth(s.handleSaveSession))
	mux.HandleFunc("GET /sessions/{id}", s.requireAuth(s.handleGetSession))
	mux.HandleFunc("DELETE /sessions/{id}", s.requireAuth(s.handleDeleteSession))
	mux.HandleFunc("POST /sessions/{id}/validate", s.requireAuth(s.handleValidateSkill))
	mux.HandleFunc("GET /stats", s.requireAuth(s.handleStats))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // grading calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the server's root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// requireAuth validates the bearer token and places the caller's user id in
// the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.errorResponse(w, http.StatusUnauthorized, (&ErrUnauthorized{}).Error())
			return
		}
		claims, err := s.jwtService.ValidateToken(token)
		if err != nil || claims.UserID == "" {
			s.errorResponse(w, http.StatusUnauthorized, (&ErrUnauthorized{}).Error())
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}

// callerID returns the authenticated user id from the request context.
func callerID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
