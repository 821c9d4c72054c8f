package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AgroXSat/groundstation-services/api"
	"github.com/AgroXSat/groundstation-services/api/middleware"
	"github.com/AgroXSat/groundstation-services/internal/events"
	"github.com/AgroXSat/groundstation-services/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	limiterIdleTimeout = 10 * time.Minute
	shutdownTimeout    = 15 * time.Second
)

// @title AgroXSat Ground Station Services API
// @version v1
// @description API for the AgroXSat ground station: satellite tracking, images, commands, payload and telemetry.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer stationDB.Close()

		service := newService(ctx)
		service.Tokens = newIssuer(ctx)
		if service.Objects == nil {
			log.Fatal().Msg("aws.s3.bucket must be set to store images")
		}

		// Initialize command publisher
		publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicCommands)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event publisher")
		}
		defer publisher.Close()
		service.Publisher = publisher

		// Housekeeping jobs
		if appCfg.Retention.Schedule != "" {
			sched, err := scheduler.NewScheduler(appCfg.Retention.Schedule, service, appCfg.Retention.Telemetry, appCfg.Commands.AckTimeout)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize scheduler")
			}
			sched.Start()
			defer sched.Stop()
		}

		limiter := middleware.NewIPLimiter(appCfg.RateLimit.RPS, appCfg.RateLimit.Burst, limiterIdleTimeout)
		go sweepLimiter(ctx, limiter)

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		r := api.NewRouter(service, api.RouterOptions{
			Limiter:  limiter,
			Metrics:  middleware.NewMetrics(registry),
			Gatherer: registry,
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("could not start server")
				stop()
			}
		}()

		<-ctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// sweepLimiter forgets idle clients until ctx is done.
func sweepLimiter(ctx context.Context, limiter *middleware.IPLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Sweep(); n > 0 {
				log.Debug().Int("clients", n).Msg("Dropped idle rate limiters")
			}
		}
	}
}
