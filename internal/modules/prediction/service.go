// README: Prediction service: config check, submission gate, one client call.
package prediction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"taxifare/internal/modules/ride"
)

// Predictor is the outbound side of the service; *Client implements it.
type Predictor interface {
	Endpoint() string
	Predict(ctx context.Context, q ride.Query) (FareResult, error)
}

type Service struct {
	client Predictor
	gate   Gate
	log    *slog.Logger
}

// NewService wires the service. A nil gate means an in-process gate, a nil
// logger means slog.Default().
func NewService(client Predictor, gate Gate, logger *slog.Logger) *Service {
	if gate == nil {
		gate = NewLocalGate()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, gate: gate, log: logger.With("module", "prediction")}
}

func (s *Service) Configured() bool {
	return IsConfigured(s.client.Endpoint())
}

// Predict runs one submission for callerKey. The outbound call is detached from
// ctx cancellation: once issued it runs to completion or timeout.
func (s *Service) Predict(ctx context.Context, callerKey string, q ride.Query) (FareResult, error) {
	if !s.Configured() {
		s.log.Warn("prediction skipped", "reason", "endpoint not configured")
		return FareResult{}, ErrEndpointNotConfigured
	}
	if err := q.Validate(); err != nil {
		return FareResult{}, err
	}

	release, err := s.gate.Acquire(ctx, callerKey)
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			s.log.Info("prediction refused", "caller", callerKey, "reason", "in flight")
		}
		return FareResult{}, err
	}
	defer release()

	start := time.Now()
	res, err := s.client.Predict(context.WithoutCancel(ctx), q)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Warn("prediction failed",
			"caller", callerKey,
			"category", string(CategoryOf(err)),
			"error", err,
			"duration", elapsed.String(),
		)
		return FareResult{}, err
	}
	s.log.Info("prediction succeeded",
		"caller", callerKey,
		"fare", res.Fare,
		"passengers", q.PassengerCount,
		"duration", elapsed.String(),
	)
	return res, nil
}
