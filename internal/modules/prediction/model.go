// README: Prediction outcomes: fare on success, categorized errors otherwise.
package prediction

import (
	"errors"
	"strconv"
	"strings"
)

// PlaceholderEndpoint is the value the endpoint is left at until configured.
const PlaceholderEndpoint = "http://your-api-url.com/predict"

var (
	ErrEndpointNotConfigured = errors.New("prediction endpoint is not configured")
	ErrSubmissionInFlight    = errors.New("a prediction request is already in flight")
)

type Category string

const (
	CategoryTransport Category = "transport"
	CategoryAPIError  Category = "api_error"
	CategoryParse     Category = "parse_error"
)

type FareResult struct {
	Fare float64
}

// OutcomeError is a failed prediction. Payload is only set for CategoryAPIError
// and holds the full decoded response.
type OutcomeError struct {
	Category Category
	Message  string
	Payload  string
	Err      error
}

func (e *OutcomeError) Error() string {
	return string(e.Category) + ": " + e.Message
}

func (e *OutcomeError) Unwrap() error {
	return e.Err
}

// CategoryOf returns the outcome category of err, or "" if err is not an OutcomeError.
func CategoryOf(err error) Category {
	var oe *OutcomeError
	if errors.As(err, &oe) {
		return oe.Category
	}
	return ""
}

// IsConfigured reports whether endpoint has been set to something usable.
func IsConfigured(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	return endpoint != "" && endpoint != PlaceholderEndpoint
}

// roundFare rounds the exact binary value to cents, ties to even.
func roundFare(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
