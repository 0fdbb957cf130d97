package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/autowerk/planner/internal/calendar"
	"github.com/autowerk/planner/internal/config"
	"github.com/autowerk/planner/internal/handlers"
	"github.com/autowerk/planner/internal/httpx"
	"github.com/autowerk/planner/internal/otelx"
	"github.com/autowerk/planner/internal/planner"
	"github.com/autowerk/planner/internal/registry"
	"github.com/autowerk/planner/internal/runtime"
	"github.com/autowerk/planner/internal/seed"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "planner")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	registries := planner.Registries{
		WorkItems: registry.NewWorkItems(),
		Platforms: registry.NewPlatforms(),
		Users:     registry.NewUsers(),
		Vehicles:  registry.NewVehicles(),
	}
	registries.Customers = registry.NewCustomers(registries.Vehicles)
	scheduler := planner.New(logger, calendar.New(), registries)

	if config.Bool("SEED_DEMO_DATA", false) {
		if err := seed.Demo(logger, registries, scheduler); err != nil {
			logger.Error("demo seeding failed", "err", err)
			panic(err)
		}
	}

	appointmentHandler := handlers.NewAppointmentHandler(scheduler, logger)
	registryHandler := handlers.NewRegistryHandler(registries, logger)

	mux := runtime.NewBaseMuxWithReady()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/v1/appointments/working", appointmentHandler.CreateWorking)
	mux.HandleFunc("/api/v1/appointments/working/update", appointmentHandler.UpdateWorking)
	mux.HandleFunc("/api/v1/appointments/working/status", appointmentHandler.SetStatus)
	mux.HandleFunc("/api/v1/appointments/consulting", appointmentHandler.CreateConsulting)
	mux.HandleFunc("/api/v1/appointments/consulting/update", appointmentHandler.UpdateConsulting)
	mux.HandleFunc("/api/v1/appointments/cleaning", appointmentHandler.CreateCleaning)
	mux.HandleFunc("/api/v1/appointments/cleaning/update", appointmentHandler.UpdateCleaning)
	mux.HandleFunc("/api/v1/appointments/cleaning/next", appointmentHandler.NextCleaning)
	mux.HandleFunc("/api/v1/appointments/remove", appointmentHandler.Remove)
	mux.HandleFunc("/api/v1/appointments", appointmentHandler.List)
	mux.HandleFunc("/api/v1/appointments/kind", appointmentHandler.Kind)
	mux.HandleFunc("/api/v1/appointments/yesterday-finished", appointmentHandler.YesterdayFinished)
	mux.HandleFunc("/api/v1/appointments/today-open", appointmentHandler.TodayOpen)
	mux.HandleFunc("/api/v1/platforms/open", appointmentHandler.OpenOnPlatform)
	mux.HandleFunc("/api/v1/platforms/suggestions", appointmentHandler.Suggestions)
	mux.HandleFunc("/api/v1/platforms/suggestions/all", appointmentHandler.SuggestionsAll)
	mux.HandleFunc("/api/v1/vehicles/history", appointmentHandler.VehicleHistory)

	mux.HandleFunc("/api/v1/workitems", registryHandler.WorkItems)
	mux.HandleFunc("/api/v1/platforms", registryHandler.Platforms)
	mux.HandleFunc("/api/v1/users", registryHandler.Users)
	mux.HandleFunc("/api/v1/customers", registryHandler.Customers)
	mux.HandleFunc("/api/v1/vehicles", registryHandler.Vehicles)
	mux.HandleFunc("/api/v1/customers/vehicles", registryHandler.LinkVehicle)

	rateLimiter := httpx.NewRateLimiter(20, 40)
	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithMetrics,
		rateLimiter.Middleware(),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(15*time.Second),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
