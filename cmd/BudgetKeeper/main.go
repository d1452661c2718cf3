package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sebuszqo/BudgetKeeper/internal/auth"
	"github.com/sebuszqo/BudgetKeeper/internal/config"
	database "github.com/sebuszqo/BudgetKeeper/internal/db"
	"github.com/sebuszqo/BudgetKeeper/internal/dispatch"
	"github.com/sebuszqo/BudgetKeeper/internal/ledger/application"
	"github.com/sebuszqo/BudgetKeeper/internal/ledger/domain"
	"github.com/sebuszqo/BudgetKeeper/internal/ledger/infrastructure"
	"github.com/sebuszqo/BudgetKeeper/internal/ledger/interfaces"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		log.Printf("[%s] Started %s %s", requestID, r.Method, r.URL.Path)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))

		log.Printf("[%s] Completed %s in %v", requestID, r.URL.Path, time.Since(start))
	})
}

type contextKey string

const requestIDKey contextKey = "requestID"

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router             *http.ServeMux
	authHandler        *auth.Handler
	authService        auth.Service
	transactionHandler *interfaces.TransactionHandler
	dbService          *database.DBService
}

func NewServer(authHandler *auth.Handler, authService auth.Service, transactionHandler *interfaces.TransactionHandler, dbService *database.DBService) *Server {
	return &Server{
		authHandler:        authHandler,
		authService:        authService,
		transactionHandler: transactionHandler,
		dbService:          dbService,
		router:             http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	health := s.dbService.Health()
	if health["status"] != "up" {
		respondJSON(w, http.StatusServiceUnavailable, health)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	router := http.NewServeMux()

	// Public routes
	router.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	router.Handle("POST /api/auth/refresh", http.HandlerFunc(s.authHandler.HandleRefresh))
	router.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Transaction routes (using JWT Access Token Middleware)
	router.Handle("POST /api/transactions",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.transactionHandler.HandleCreateTransaction)))
	router.Handle("GET /api/transactions",
		s.authService.JWTAccessTokenMiddleware()(http.HandlerFunc(s.transactionHandler.HandleGetTransactions)))

	router.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = router
}

// newDispatcher binds every command and query to its single handler. A
// registration error here is a configuration bug, so main treats it as fatal
// before the server accepts any traffic.
func newDispatcher(sessions domain.SessionFactory) (*dispatch.Dispatcher, error) {
	d := dispatch.New()

	dispatch.RegisterValidator(d, application.ValidateCreateTransaction)

	createHandler := application.NewCreateTransactionHandler(sessions)
	if err := dispatch.Register(d, createHandler.Handle); err != nil {
		return nil, err
	}

	getHandler := application.NewGetTransactionsHandler(sessions)
	if err := dispatch.Register(d, getHandler.Handle); err != nil {
		return nil, err
	}

	return d, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	dbService, err := database.NewDBService(cfg.DBConnString)
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := dbService.Migrate(); err != nil {
		log.Fatalf("Could not migrate database: %v", err)
	}

	tokenManager, err := auth.NewTokenManager(cfg)
	if err != nil {
		log.Fatalf("Could not initialize token manager: %v", err)
	}

	userRepo := auth.NewUserRepository(dbService.DB)
	authService := auth.NewAuthService(userRepo, tokenManager, cfg.RefreshTokenTTL)
	authHandler := auth.NewHandler(authService)

	sessions := infrastructure.NewPgSessionFactory(dbService.DB)
	dispatcher, err := newDispatcher(sessions)
	if err != nil {
		log.Fatalf("Dispatcher configuration error: %v", err)
	}
	transactionHandler := interfaces.NewTransactionHandler(dispatcher, respondJSON, respondError)

	server := NewServer(authHandler, authService, transactionHandler, dbService)
	server.RegisterRoutes()

	handler := loggingMiddleware(server.router)
	log.Printf("Server starting on port %s...", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
