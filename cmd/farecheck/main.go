// README: One-shot fare check; sends a ride query to the prediction endpoint and prints the outcome.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"taxifare/internal/config"
	"taxifare/internal/modules/prediction"
	"taxifare/internal/modules/ride"
	"taxifare/internal/types"
)

type Config struct {
	Endpoint   string
	Timeout    time.Duration
	Date       string
	Time       string
	PickupLat  float64
	PickupLng  float64
	DropoffLat float64
	DropoffLng float64
	Passengers int
	Randomize  bool
	Runs       int
	Verbose    bool
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	os.Exit(run(ctx, cfg, logger, os.Stdout))
}

// loadConfig layers flags over the same env and dotenv defaults the web server reads.
func loadConfig(args []string) (Config, error) {
	env, err := config.Load()
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	fs := flag.NewFlagSet("farecheck", flag.ContinueOnError)
	fs.StringVar(&cfg.Endpoint, "endpoint", env.Predict.Endpoint, "Prediction endpoint URL")
	fs.DurationVar(&cfg.Timeout, "timeout", env.Predict.Timeout, "Per-request timeout")
	fs.StringVar(&cfg.Date, "date", time.Now().Format("2006-01-02"), "Pickup date (YYYY-MM-DD)")
	fs.StringVar(&cfg.Time, "time", "12:00", "Pickup time (HH:MM or HH:MM:SS)")
	fs.Float64Var(&cfg.PickupLat, "pickup-lat", 40.757139, "Pickup latitude")
	fs.Float64Var(&cfg.PickupLng, "pickup-lng", -73.985655, "Pickup longitude")
	fs.Float64Var(&cfg.DropoffLat, "dropoff-lat", 40.761421, "Dropoff latitude")
	fs.Float64Var(&cfg.DropoffLng, "dropoff-lng", -73.987795, "Dropoff longitude")
	fs.IntVar(&cfg.Passengers, "passengers", 1, "Passenger count (1-8)")
	fs.BoolVar(&cfg.Randomize, "randomize", false, "Use random NYC coordinates for every run")
	fs.IntVar(&cfg.Runs, "runs", 1, "Number of sequential predictions")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("-timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Runs < 1 {
		return Config{}, fmt.Errorf("-runs must be at least 1, got %d", cfg.Runs)
	}
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	return cfg, nil
}

// run returns the process exit code: 0 when every run got a fare.
func run(ctx context.Context, cfg Config, logger *slog.Logger, out io.Writer) int {
	svc := prediction.NewService(prediction.NewClient(cfg.Endpoint, cfg.Timeout), nil, logger)
	if !svc.Configured() {
		fmt.Fprintln(out, "Please enter your API URL in the configuration to get a prediction.")
		return 2
	}

	rnd := ride.NewRandomizer(nil)
	pickup := types.Point{Lat: cfg.PickupLat, Lng: cfg.PickupLng}
	dropoff := types.Point{Lat: cfg.DropoffLat, Lng: cfg.DropoffLng}

	ok, failed := 0, 0
	for i := 0; i < cfg.Runs; i++ {
		if cfg.Randomize {
			pickup, dropoff = rnd.Randomize()
		}
		q, err := ride.NewQuery(cfg.Date, cfg.Time, pickup, dropoff, cfg.Passengers)
		if err != nil {
			fmt.Fprintln(out, err)
			return 2
		}

		start := time.Now()
		res, err := svc.Predict(ctx, "farecheck", q)
		latency := time.Since(start)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s -> %s (%s) %s\n", q.Pickup, q.Dropoff, latency.Round(time.Millisecond), describe(err))
			continue
		}
		ok++
		fmt.Fprintf(out, "OK   %s -> %s (%s) fare=%.2f distance=%.2fkm\n",
			q.Pickup, q.Dropoff, latency.Round(time.Millisecond), res.Fare, ride.DistanceKm(q.Pickup, q.Dropoff))
	}

	fmt.Fprintf(out, "\nOK=%d FAIL=%d\n", ok, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func describe(err error) string {
	var oe *prediction.OutcomeError
	if errors.As(err, &oe) {
		return fmt.Sprintf("[%s] %s", oe.Category, oe.Message)
	}
	return err.Error()
}
