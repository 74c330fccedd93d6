// README: Static map image for a pickup/dropoff pair.
package handlers

import (
	"bytes"
	"image/png"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifare/internal/maps"
	"taxifare/internal/modules/ride"
)

type MapHandler struct {
	maps *maps.MapService
	log  *slog.Logger
}

// NewMapHandler accepts a nil service; the route then answers 404.
func NewMapHandler(svc *maps.MapService, logger *slog.Logger) *MapHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MapHandler{maps: svc, log: logger}
}

func (h *MapHandler) Render(c *gin.Context) {
	if h.maps == nil {
		writeError(c, http.StatusNotFound, "maps disabled")
		return
	}
	pickup, dropoff, err := ride.PointsFromParams(c.Request.URL.Query())
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	img, err := h.maps.RenderTrip(c.Request.Context(), pickup, dropoff)
	if err != nil {
		h.log.Warn("render map", "error", err)
		writeError(c, http.StatusBadGateway, "map unavailable")
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
