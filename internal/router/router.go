package router

import (
	"net/http"

	"pettrack/docs"
	"pettrack/internal/adapters/blob/memblob"
	"pettrack/internal/adapters/lognotify"
	mem "pettrack/internal/adapters/storage/memory"
	"pettrack/internal/domain/geocode"
	"pettrack/internal/domain/intake"
	"pettrack/internal/domain/matches"
	"pettrack/internal/domain/reports"
	"pettrack/internal/middleware"
	"pettrack/internal/platform/logger"
	"pettrack/internal/ports/auth"
	"pettrack/internal/ports/blob"
	"pettrack/internal/ports/matching"
	"pettrack/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	DevUserID    string            // caller por defecto cuando AuthVerifier == nil

	Logger logger.Logger

	// Repos: si vienen nil se usan los in-memory.
	ReportsRepo reports.Repository
	MatchesRepo matches.Repository

	Uploader blob.Uploader    // nil => memblob
	Matcher  matching.Matcher // nil => nunca hay candidatos
	Notifier notify.Notifier  // nil => lognotify
	Geocoder *geocode.Service // nil => sin geocoding

	MatchThreshold *float64 // nil => intake.DefaultThreshold
	MatchPolicy    reports.MatchPolicy
	MaxUploadBytes int64
	CORSOrigins    []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(corsHandler(opts.CORSOrigins))
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, opts.DevUserID))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	docs.SwaggerInfo.BasePath = "/"
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	reportRepo := opts.ReportsRepo
	if reportRepo == nil {
		reportRepo = mem.NewReportRepo()
	}
	matchRepo := opts.MatchesRepo
	if matchRepo == nil {
		matchRepo = mem.NewMatchRepo()
	}

	uploader := opts.Uploader
	if uploader == nil {
		uploader = memblob.New()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = lognotify.New(log)
	}

	// Services por módulo
	reportsSvc := reports.NewService(reportRepo, opts.MatchPolicy)
	matchesSvc := matches.NewService(matchRepo)

	deps := intake.Deps{
		Reports:  reportsSvc,
		Matches:  matchesSvc,
		Uploader: uploader,
		Matcher:  opts.Matcher,
		Notifier: notifier,
		Logger:   log,
	}
	if opts.Geocoder != nil {
		deps.Geocoder = opts.Geocoder
	}
	threshold := intake.DefaultThreshold
	if opts.MatchThreshold != nil {
		threshold = *opts.MatchThreshold
	}
	intakeSvc := intake.NewService(deps, intake.Config{Threshold: threshold})

	// Rutas por módulo. /pets/matches es estática y chi la prioriza sobre /pets/{petID}.
	intake.RegisterRoutes(r, intakeSvc, opts.MaxUploadBytes, log)
	matches.RegisterRoutes(r, matchesSvc, reportsSvc, log)
	reports.RegisterRoutes(r, reportsSvc, log)

	return r
}

// corsHandler habilita CORS con credenciales para los orígenes configurados.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.DebugUserHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler
}
