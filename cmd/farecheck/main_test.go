package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadConfig_Flags(t *testing.T) {
	t.Setenv("TAXIFARE_API_URL", "http://env.example/predict")
	cfg, err := loadConfig([]string{"-passengers", "3", "-runs", "2", "-randomize", "-timeout", "2s"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Endpoint != "http://env.example/predict" {
		t.Errorf("Endpoint = %q, want env value", cfg.Endpoint)
	}
	if cfg.Passengers != 3 || cfg.Runs != 2 || !cfg.Randomize || cfg.Timeout != 2*time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}

	if _, err := loadConfig([]string{"-runs", "0"}); err == nil {
		t.Error("loadConfig() accepted -runs 0")
	}
}

func TestLoadConfig_SharesServerDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farecheck.env")
	if err := os.WriteFile(path, []byte("TAXIFARE_API_URL=http://fare.example.com/predict\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TAXIFARE_ENV_FILE", path)
	t.Setenv("TAXIFARE_API_URL", "")
	t.Setenv("TAXIFARE_API_TIMEOUT", "30")

	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Endpoint != "http://fare.example.com/predict" {
		t.Errorf("Endpoint = %q, want value from env file", cfg.Endpoint)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}

	t.Setenv("TAXIFARE_API_TIMEOUT", "-5s")
	if _, err := loadConfig(nil); err == nil {
		t.Error("loadConfig() accepted a negative TAXIFARE_API_TIMEOUT")
	}
}

func TestRun(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 2 {
			_, _ = w.Write([]byte(`{"distance": 3.1}`))
			return
		}
		_, _ = w.Write([]byte(`{"fare": 9.999}`))
	}))
	defer srv.Close()

	cfg := Config{
		Endpoint:   srv.URL,
		Timeout:    time.Second,
		Date:       "2025-06-01",
		Time:       "12:00",
		PickupLat:  40.757139,
		PickupLng:  -73.985655,
		DropoffLat: 40.761421,
		DropoffLng: -73.987795,
		Passengers: 1,
		Randomize:  true,
		Runs:       3,
	}
	var out bytes.Buffer
	code := run(context.Background(), cfg, quietLogger(), &out)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	got := out.String()
	for _, want := range []string{"fare=10.00", "[api_error]", `{"distance": 3.1}`, "OK=2 FAIL=1"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if calls.Load() != 3 {
		t.Errorf("endpoint calls = %d, want 3", calls.Load())
	}
}

func TestRun_Unconfigured(t *testing.T) {
	var out bytes.Buffer
	cfg := Config{Endpoint: "", Timeout: time.Second, Date: "2025-06-01", Time: "12:00", Passengers: 1, Runs: 1}
	if code := run(context.Background(), cfg, quietLogger(), &out); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(out.String(), "Please enter your API URL") {
		t.Errorf("output = %q", out.String())
	}
}
