package handlers

import (
	"net/http"
	"time"

	_ "github.com/antonyoatec/case-tecnofit/docs"
	accounthandlers "github.com/antonyoatec/case-tecnofit/internal/handlers/account"
	healthhandlers "github.com/antonyoatec/case-tecnofit/internal/handlers/health"
	"github.com/antonyoatec/case-tecnofit/internal/service"
	"github.com/antonyoatec/case-tecnofit/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AccountHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
}

type HealthHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AccountHandler AccountHandler
	HealthHandler  HealthHandler
}

func New(s *service.Services, pinger healthhandlers.Pinger) *Handlers {
	return &Handlers{
		AccountHandler: accounthandlers.New(s.AccountService, s.WithdrawService),
		HealthHandler:  healthhandlers.New(pinger),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Get("/health", h.HealthHandler.Check)
	r.Route("/account/{id}/balance", func(r chi.Router) {
		r.Get("/", h.AccountHandler.GetBalance)

		r.Group(func(r chi.Router) {
			r.Use(withdrawRateLimiter())
			r.Post("/withdraw", h.AccountHandler.Withdraw)
		})
	})

	return r
}

// withdrawRateLimiter caps withdrawal attempts per client IP.
func withdrawRateLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.RespondWithError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests, please try again later")
		}),
	)
}
