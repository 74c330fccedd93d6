// README: Form page handlers: show, predict, randomize.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taxifare/internal/maps"
	"taxifare/internal/modules/prediction"
	"taxifare/internal/modules/ride"
	"taxifare/internal/types"
)

const (
	formTemplate = "form.html"

	defaultPickupTime = "12:00"
	defaultPassengers = 1

	routeEstimateTimeout = 5 * time.Second
)

var (
	defaultPickup  = types.Point{Lat: 40.757139, Lng: -73.985655}
	defaultDropoff = types.Point{Lat: 40.761421, Lng: -73.987795}
)

// Result kinds rendered by the template.
const (
	resultSuccess  = "success"
	resultAPIError = "api_error"
	resultError    = "error"
	resultConfig   = "config"
	resultBusy     = "busy"
)

type FormHandler struct {
	prediction *prediction.Service
	randomizer *ride.Randomizer
	route      *maps.RouteService
	mapEnabled bool
	log        *slog.Logger
	now        func() time.Time
}

// FormDeps wires the form page. Route may be nil; MapEnabled controls whether
// the page links /map.png.
type FormDeps struct {
	Prediction *prediction.Service
	Randomizer *ride.Randomizer
	Route      *maps.RouteService
	MapEnabled bool
	Logger     *slog.Logger
	Now        func() time.Time
}

func NewFormHandler(deps FormDeps) *FormHandler {
	h := &FormHandler{
		prediction: deps.Prediction,
		randomizer: deps.Randomizer,
		route:      deps.Route,
		mapEnabled: deps.MapEnabled,
		log:        deps.Logger,
		now:        deps.Now,
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

type rideForm struct {
	PickupDate       string   `form:"pickup_date" binding:"required"`
	PickupTime       string   `form:"pickup_time" binding:"required"`
	PickupLongitude  *float64 `form:"pickup_longitude" binding:"required"`
	PickupLatitude   *float64 `form:"pickup_latitude" binding:"required"`
	DropoffLongitude *float64 `form:"dropoff_longitude" binding:"required"`
	DropoffLatitude  *float64 `form:"dropoff_latitude" binding:"required"`
	PassengerCount   int      `form:"passenger_count" binding:"required,min=1,max=8"`
}

type formView struct {
	PickupDate       string
	PickupTime       string
	PickupLongitude  string
	PickupLatitude   string
	DropoffLongitude string
	DropoffLatitude  string
	PassengerCount   string
	MinPassengers    int
	MaxPassengers    int

	Configured bool
	MapURL     string
	FormError  string
	Result     *resultView
}

type resultView struct {
	Kind       string
	Message    string
	Payload    string
	Fare       string
	DistanceKm string
	TravelTime string
	TravelDist string
}

// Show renders the form with today's date and the default Midtown trip.
func (h *FormHandler) Show(c *gin.Context) {
	view := h.newView()
	view.PickupDate = h.now().Format("2006-01-02")
	view.PickupTime = defaultPickupTime
	view.PassengerCount = strconv.Itoa(defaultPassengers)
	h.setPoints(&view, defaultPickup, defaultDropoff)
	c.HTML(http.StatusOK, formTemplate, view)
}

// Randomize keeps date, time and passengers, replaces both points.
func (h *FormHandler) Randomize(c *gin.Context) {
	view := h.viewFromForm(c)
	pickup, dropoff := h.randomizer.Randomize()
	h.setPoints(&view, pickup, dropoff)
	c.HTML(http.StatusOK, formTemplate, view)
}

func (h *FormHandler) Predict(c *gin.Context) {
	view := h.viewFromForm(c)

	var f rideForm
	if err := c.ShouldBind(&f); err != nil {
		view.FormError = "Invalid form: " + err.Error()
		c.HTML(http.StatusBadRequest, formTemplate, view)
		return
	}
	pickup := types.Point{Lat: *f.PickupLatitude, Lng: *f.PickupLongitude}
	dropoff := types.Point{Lat: *f.DropoffLatitude, Lng: *f.DropoffLongitude}
	q, err := ride.NewQuery(f.PickupDate, f.PickupTime, pickup, dropoff, f.PassengerCount)
	if err != nil {
		view.FormError = err.Error()
		c.HTML(http.StatusBadRequest, formTemplate, view)
		return
	}
	h.setPoints(&view, pickup, dropoff)

	res, err := h.prediction.Predict(c.Request.Context(), c.ClientIP(), q)
	view.Result = h.result(c.Request.Context(), q, res, err)
	c.HTML(http.StatusOK, formTemplate, view)
}

func (h *FormHandler) result(ctx context.Context, q ride.Query, res prediction.FareResult, err error) *resultView {
	var oe *prediction.OutcomeError
	switch {
	case err == nil:
		r := &resultView{
			Kind:       resultSuccess,
			Fare:       fmt.Sprintf("$%.2f", res.Fare),
			DistanceKm: fmt.Sprintf("%.2f km", roundKm(ride.DistanceKm(q.Pickup, q.Dropoff))),
		}
		h.addTravelEstimate(ctx, r, q)
		return r
	case errors.As(err, &oe):
		r := &resultView{Kind: resultError, Message: outcomeMessage(oe)}
		if oe.Category == prediction.CategoryAPIError {
			r.Kind = resultAPIError
			r.Payload = oe.Payload
		}
		return r
	case errors.Is(err, prediction.ErrEndpointNotConfigured):
		return &resultView{Kind: resultConfig, Message: configMessage}
	case errors.Is(err, prediction.ErrSubmissionInFlight):
		return &resultView{Kind: resultBusy, Message: "A prediction is already running for you. Wait for it to finish before submitting again."}
	default:
		return &resultView{Kind: resultError, Message: "Error calling the API: " + err.Error()}
	}
}

func (h *FormHandler) addTravelEstimate(ctx context.Context, r *resultView, q ride.Query) {
	if h.route == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, routeEstimateTimeout)
	defer cancel()
	d, dist, err := h.route.GetTravelEstimate(ctx, q.Pickup, q.Dropoff)
	if err != nil {
		h.log.Warn("travel estimate unavailable", "error", err)
		return
	}
	r.TravelTime = d.Round(time.Minute).String()
	r.TravelDist = dist
}

func (h *FormHandler) newView() formView {
	return formView{
		MinPassengers: ride.MinPassengers,
		MaxPassengers: ride.MaxPassengers,
		Configured:    h.prediction.Configured(),
	}
}

// viewFromForm echoes the submitted values back so a rejected form keeps them.
func (h *FormHandler) viewFromForm(c *gin.Context) formView {
	view := h.newView()
	view.PickupDate = c.DefaultPostForm("pickup_date", h.now().Format("2006-01-02"))
	view.PickupTime = c.DefaultPostForm("pickup_time", defaultPickupTime)
	view.PassengerCount = c.DefaultPostForm("passenger_count", strconv.Itoa(defaultPassengers))
	view.PickupLongitude = strings.TrimSpace(c.PostForm(ride.ParamPickupLongitude))
	view.PickupLatitude = strings.TrimSpace(c.PostForm(ride.ParamPickupLatitude))
	view.DropoffLongitude = strings.TrimSpace(c.PostForm(ride.ParamDropoffLongitude))
	view.DropoffLatitude = strings.TrimSpace(c.PostForm(ride.ParamDropoffLatitude))
	return view
}

func (h *FormHandler) setPoints(view *formView, pickup, dropoff types.Point) {
	params := ride.PointParams(pickup, dropoff)
	view.PickupLongitude = params.Get(ride.ParamPickupLongitude)
	view.PickupLatitude = params.Get(ride.ParamPickupLatitude)
	view.DropoffLongitude = params.Get(ride.ParamDropoffLongitude)
	view.DropoffLatitude = params.Get(ride.ParamDropoffLatitude)
	if h.mapEnabled {
		view.MapURL = "/map.png?" + params.Encode()
	}
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
