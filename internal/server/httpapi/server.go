// Package httpapi exposes the account service over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/textping/accountd/internal/logging"
	"github.com/textping/accountd/internal/server/models"
)

// AccountService is the surface of the service layer the handlers need.
type AccountService interface {
	Register(ctx context.Context, email, password string) (*models.Account, string, error)
	Login(ctx context.Context, email, password string) (*models.Account, string, error)
	ProfileByToken(ctx context.Context, token string) (*models.Account, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) (*models.Account, error)
	Subscribe(ctx context.Context, token, textTime, phoneNumber string) error
}

type Server struct {
	address  string
	logger   logging.Logger
	accounts AccountService
}

func NewServer(address string, l logging.Logger, svc AccountService) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: svc,
	}
}

// routes wires every endpoint onto a router wrapped with the request-id and
// request-logging middleware.
func (s *Server) routes() http.Handler {
	router := httprouter.New()

	router.Handler(http.MethodGet, "/", s.home())
	router.Handler(http.MethodPost, "/api/register", s.register())
	router.Handler(http.MethodPost, "/api/login", s.login())
	router.Handler(http.MethodGet, "/api/profile", s.profile())
	router.Handler(http.MethodPut, "/api/user/:id", s.updateUser())
	router.Handler(http.MethodDelete, "/api/user/:id", s.deleteUser())
	router.Handler(http.MethodPost, "/api/subscribe", s.subscribe())

	return s.requestID(s.requestLogger(router))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
