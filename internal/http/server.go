// README: Web gateway; registers routes and delegates to module services.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifare/internal/http/handlers"
	httpmiddleware "taxifare/internal/http/middleware"
	"taxifare/internal/maps"
	"taxifare/internal/modules/prediction"
	"taxifare/internal/modules/ride"
)

// ServerDeps holds the services behind the routes. Maps and Route may be nil.
type ServerDeps struct {
	Prediction *prediction.Service
	Randomizer *ride.Randomizer
	Maps       *maps.MapService
	Route      *maps.RouteService
	Logger     *slog.Logger
}

type Server struct {
	prediction *prediction.Service
	randomizer *ride.Randomizer
	maps       *maps.MapService
	route      *maps.RouteService
	log        *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		prediction: deps.Prediction,
		randomizer: deps.Randomizer,
		maps:       deps.Maps,
		route:      deps.Route,
		log:        deps.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.randomizer == nil {
		s.randomizer = ride.NewRandomizer(nil)
	}
	return s
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(httpmiddleware.Recovery(s.log), httpmiddleware.Logging(s.log))
	r.SetHTMLTemplate(handlers.Templates())

	form := handlers.NewFormHandler(handlers.FormDeps{
		Prediction: s.prediction,
		Randomizer: s.randomizer,
		Route:      s.route,
		MapEnabled: s.maps != nil,
		Logger:     s.log,
	})
	r.GET("/", form.Show)
	r.POST("/predict", form.Predict)
	r.POST("/randomize", form.Randomize)

	api := handlers.NewAPIHandler(s.prediction, s.randomizer)
	r.GET("/api/predict", api.Predict)
	r.GET("/api/random-coordinates", api.RandomCoordinates)

	r.GET("/map.png", handlers.NewMapHandler(s.maps, s.log).Render)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
