// README: JSON API handlers for prediction and random coordinates.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifare/internal/modules/prediction"
	"taxifare/internal/modules/ride"
	"taxifare/internal/types"
)

type APIHandler struct {
	prediction *prediction.Service
	randomizer *ride.Randomizer
}

func NewAPIHandler(svc *prediction.Service, rnd *ride.Randomizer) *APIHandler {
	return &APIHandler{prediction: svc, randomizer: rnd}
}

type fareResp struct {
	Fare       float64 `json:"fare"`
	DistanceKm float64 `json:"distance_km"`
}

type pointResp struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type coordinatesResp struct {
	Pickup  pointResp `json:"pickup"`
	Dropoff pointResp `json:"dropoff"`
}

// Predict takes the same six query parameters the prediction endpoint does.
func (h *APIHandler) Predict(c *gin.Context) {
	q, err := ride.QueryFromParams(c.Request.URL.Query())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.prediction.Predict(c.Request.Context(), c.ClientIP(), q)
	if err != nil {
		writePredictionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, fareResp{
		Fare:       res.Fare,
		DistanceKm: roundKm(ride.DistanceKm(q.Pickup, q.Dropoff)),
	})
}

func (h *APIHandler) RandomCoordinates(c *gin.Context) {
	pickup, dropoff := h.randomizer.Randomize()
	writeJSON(c, http.StatusOK, coordinatesResp{Pickup: toPointResp(pickup), Dropoff: toPointResp(dropoff)})
}

func toPointResp(p types.Point) pointResp {
	return pointResp{Latitude: p.Lat, Longitude: p.Lng}
}
