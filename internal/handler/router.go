package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions: зависимости и настройки HTTP-роутера.
type RouterOptions struct {
	Logger   *slog.Logger
	Auth     usecase.AuthUseCase
	Books    usecase.BookUseCase
	Verifier TokenVerifier

	// Health может быть nil, тогда /healthz всегда отвечает 200.
	Health ports.HealthChecker
	// LoginLimiter может быть nil, тогда вход не ограничивается.
	LoginLimiter *IPRateLimiter
	// Registry может быть nil, тогда /metrics не публикуется.
	Registry *prometheus.Registry

	BasePath       string
	Timeout        time.Duration
	AllowedOrigins []string
}

// NewRouter собирает chi-роутер: /auth открыт, /book закрыт Authenticate.
func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger

	var metrics *Metrics
	if opts.Registry != nil {
		metrics = NewMetrics(opts.Registry)
	}

	authHandler := NewAuthHandler(opts.Auth, metrics, logger)
	bookHandler := NewBookHandler(opts.Books, opts.BasePath, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Get("/livez", Livez)
	r.Get("/healthz", Healthz(opts.Health, logger))
	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	api := func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			if opts.LoginLimiter != nil {
				r.With(RateLimit(opts.LoginLimiter, logger)).Post("/login", authHandler.Login)
			} else {
				r.Post("/login", authHandler.Login)
			}
		})

		r.Route("/book", func(r chi.Router) {
			r.Use(Authenticate(opts.Verifier, logger))

			r.Get("/getAllBooks", bookHandler.GetAllBooks)
			r.Get("/getBook/{id}", bookHandler.GetBook)
			r.Post("/addBook", bookHandler.AddBook)
			r.Put("/updateBook/{id}", bookHandler.UpdateBook)
			r.Delete("/deleteBook/{id}", bookHandler.DeleteBook)
		})
	}

	if opts.BasePath == "" {
		api(r)
	} else {
		r.Route(opts.BasePath, api)
	}

	return r
}
