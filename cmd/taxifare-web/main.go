// README: Entry point; loads config, wires services, starts the web server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"taxifare/internal/config"
	httptransport "taxifare/internal/http"
	"taxifare/internal/infra"
	"taxifare/internal/maps"
	"taxifare/internal/modules/prediction"
	"taxifare/internal/modules/ride"
)

// gateMargin keeps the shared gate held a little past the request timeout.
const gateMargin = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gate prediction.Gate
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.ConnectRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			logger.Error("redis init", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		gate = prediction.NewRedisGate(redisClient, cfg.Predict.Timeout+gateMargin)
		logger.Info("submission gate", "backend", "redis", "addr", cfg.Redis.Addr)
	}

	client := prediction.NewClient(cfg.Predict.Endpoint, cfg.Predict.Timeout)
	predictionSvc := prediction.NewService(client, gate, logger)
	if !predictionSvc.Configured() {
		logger.Warn("prediction endpoint not configured", "env", "TAXIFARE_API_URL")
	}

	deps := httptransport.ServerDeps{
		Prediction: predictionSvc,
		Randomizer: ride.NewRandomizer(nil),
		Logger:     logger,
	}
	if cfg.Maps.APIKey != "" {
		if deps.Maps, err = maps.NewMapService(cfg.Maps.APIKey, cfg.Maps.Zoom); err != nil {
			logger.Error("maps init", "error", err)
			os.Exit(1)
		}
		if deps.Route, err = maps.NewRouteService(cfg.Maps.APIKey); err != nil {
			logger.Error("maps init", "error", err)
			os.Exit(1)
		}
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewServer(deps).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTP.Addr, "endpoint", client.Endpoint(), "maps", deps.Maps != nil)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Predict.Timeout+gateMargin)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
		logger.Info("stopped")
	}
}
