// README: Ride query value object, built fresh for every submission.
package ride

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taxifare/internal/types"
)

const (
	MinPassengers = 1
	MaxPassengers = 8

	// DatetimeLayout is the pickup_datetime wire format.
	DatetimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

// Query parameter names sent to the prediction endpoint.
const (
	ParamPickupDatetime   = "pickup_datetime"
	ParamPickupLongitude  = "pickup_longitude"
	ParamPickupLatitude   = "pickup_latitude"
	ParamDropoffLongitude = "dropoff_longitude"
	ParamDropoffLatitude  = "dropoff_latitude"
	ParamPassengerCount   = "passenger_count"
)

var (
	ErrInvalidDate           = errors.New("invalid pickup date")
	ErrInvalidTime           = errors.New("invalid pickup time")
	ErrInvalidDatetime       = errors.New("invalid pickup datetime")
	ErrInvalidCoordinate     = errors.New("invalid coordinate")
	ErrInvalidPassengerCount = errors.New("passenger count must be between 1 and 8")
)

// Query is the six-field input of one fare estimation request.
type Query struct {
	PickupDatetime string
	Pickup         types.Point
	Dropoff        types.Point
	PassengerCount int
}

// NewQuery joins the date and time picker values into the pickup datetime.
// clock accepts "HH:MM" (what browsers submit) or "HH:MM:SS".
func NewQuery(date, clock string, pickup, dropoff types.Point, passengers int) (Query, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	tod, err := parseClock(clock)
	if err != nil {
		return Query{}, err
	}
	q := Query{
		PickupDatetime: d.Format(dateLayout) + " " + tod,
		Pickup:         pickup,
		Dropoff:        dropoff,
		PassengerCount: passengers,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parseClock(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTime, clock)
}

// Validate checks the passenger bounds and the datetime format. Coordinates are
// accepted as given; range checks are left to the prediction endpoint.
func (q Query) Validate() error {
	if q.PassengerCount < MinPassengers || q.PassengerCount > MaxPassengers {
		return fmt.Errorf("%w: got %d", ErrInvalidPassengerCount, q.PassengerCount)
	}
	if _, err := time.Parse(DatetimeLayout, q.PickupDatetime); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDatetime, q.PickupDatetime)
	}
	return nil
}

// Params serializes the query as the endpoint's six query parameters.
func (q Query) Params() url.Values {
	v := PointParams(q.Pickup, q.Dropoff)
	v.Set(ParamPickupDatetime, q.PickupDatetime)
	v.Set(ParamPassengerCount, strconv.Itoa(q.PassengerCount))
	return v
}

// PointParams encodes only the four coordinate parameters.
func PointParams(pickup, dropoff types.Point) url.Values {
	v := make(url.Values, 6)
	v.Set(ParamPickupLongitude, formatFloat(pickup.Lng))
	v.Set(ParamPickupLatitude, formatFloat(pickup.Lat))
	v.Set(ParamDropoffLongitude, formatFloat(dropoff.Lng))
	v.Set(ParamDropoffLatitude, formatFloat(dropoff.Lat))
	return v
}

// QueryFromParams is the inverse of Params, used by the JSON API and the CLI.
func QueryFromParams(v url.Values) (Query, error) {
	pickup, dropoff, err := PointsFromParams(v)
	if err != nil {
		return Query{}, err
	}
	q := Query{
		PickupDatetime: strings.TrimSpace(v.Get(ParamPickupDatetime)),
		Pickup:         pickup,
		Dropoff:        dropoff,
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.Get(ParamPassengerCount)))
	if err != nil {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidPassengerCount, v.Get(ParamPassengerCount))
	}
	q.PassengerCount = n
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// PointsFromParams reads the four coordinate parameters.
func PointsFromParams(v url.Values) (pickup, dropoff types.Point, err error) {
	if pickup.Lng, err = parseCoordinate(v, ParamPickupLongitude); err != nil {
		return
	}
	if pickup.Lat, err = parseCoordinate(v, ParamPickupLatitude); err != nil {
		return
	}
	if dropoff.Lng, err = parseCoordinate(v, ParamDropoffLongitude); err != nil {
		return
	}
	dropoff.Lat, err = parseCoordinate(v, ParamDropoffLatitude)
	return
}

func parseCoordinate(v url.Values, key string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Get(key)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidCoordinate, key, v.Get(key))
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
