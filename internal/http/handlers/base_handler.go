// README: Base handler utilities (JSON helpers, error mapping, outcome messages).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifare/internal/modules/prediction"
	"taxifare/internal/modules/ride"
)

const configMessage = "Please enter your API URL in the configuration to get a prediction."

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePredictionError(c *gin.Context, err error) {
	var oe *prediction.OutcomeError
	switch {
	case errors.As(err, &oe):
		writeJSON(c, http.StatusBadGateway, errorResponse{Error: outcomeMessage(oe), Category: string(oe.Category)})
	case errors.Is(err, prediction.ErrEndpointNotConfigured):
		writeError(c, http.StatusServiceUnavailable, configMessage)
	case errors.Is(err, prediction.ErrSubmissionInFlight):
		writeError(c, http.StatusConflict, err.Error())
	case isQueryError(err):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// outcomeMessage is the user-facing text for a failed prediction.
func outcomeMessage(oe *prediction.OutcomeError) string {
	switch oe.Category {
	case prediction.CategoryParse:
		return "Error parsing API response: " + oe.Message
	case prediction.CategoryAPIError:
		return "Error: " + oe.Message
	default:
		return "Error calling the API: " + oe.Message
	}
}

func isQueryError(err error) bool {
	return errors.Is(err, ride.ErrInvalidDate) ||
		errors.Is(err, ride.ErrInvalidTime) ||
		errors.Is(err, ride.ErrInvalidDatetime) ||
		errors.Is(err, ride.ErrInvalidCoordinate) ||
		errors.Is(err, ride.ErrInvalidPassengerCount)
}
