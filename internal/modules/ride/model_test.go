package ride

import (
	"errors"
	"net/url"
	"testing"

	"taxifare/internal/types"
)

var (
	timesSquare = types.Point{Lat: 40.757139, Lng: -73.985655}
	bryantPark  = types.Point{Lat: 40.761421, Lng: -73.987795}
)

func TestNewQuery_JoinsDateAndTime(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		want  string
	}{
		{name: "browser time input", date: "2025-06-01", clock: "12:00", want: "2025-06-01 12:00:00"},
		{name: "with seconds", date: "2025-06-01", clock: "08:15:30", want: "2025-06-01 08:15:30"},
		{name: "surrounding spaces", date: " 2025-12-31 ", clock: " 23:59 ", want: "2025-12-31 23:59:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuery(tt.date, tt.clock, timesSquare, bryantPark, 2)
			if err != nil {
				t.Fatalf("NewQuery() error = %v", err)
			}
			if q.PickupDatetime != tt.want {
				t.Errorf("PickupDatetime = %q, want %q", q.PickupDatetime, tt.want)
			}
		})
	}
}

func TestNewQuery_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		clock      string
		passengers int
		wantErr    error
	}{
		{name: "bad date", date: "06/01/2025", clock: "12:00", passengers: 1, wantErr: ErrInvalidDate},
		{name: "bad time", date: "2025-06-01", clock: "noon", passengers: 1, wantErr: ErrInvalidTime},
		{name: "zero passengers", date: "2025-06-01", clock: "12:00", passengers: 0, wantErr: ErrInvalidPassengerCount},
		{name: "nine passengers", date: "2025-06-01", clock: "12:00", passengers: 9, wantErr: ErrInvalidPassengerCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuery(tt.date, tt.clock, timesSquare, bryantPark, tt.passengers)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewQuery() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewQuery_PassengerBounds(t *testing.T) {
	for n := MinPassengers; n <= MaxPassengers; n++ {
		if _, err := NewQuery("2025-06-01", "12:00", timesSquare, bryantPark, n); err != nil {
			t.Errorf("passengers=%d: unexpected error %v", n, err)
		}
	}
}

func TestQueryParams_ExactlySixFields(t *testing.T) {
	q, err := NewQuery("2025-06-01", "12:00", timesSquare, bryantPark, 3)
	if err != nil {
		t.Fatalf("NewQuery() error = %v", err)
	}
	got := q.Params()
	want := map[string]string{
		"pickup_datetime":   "2025-06-01 12:00:00",
		"pickup_longitude":  "-73.985655",
		"pickup_latitude":   "40.757139",
		"dropoff_longitude": "-73.987795",
		"dropoff_latitude":  "40.761421",
		"passenger_count":   "3",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d params, want %d: %v", len(got), len(want), got)
	}
	for k, v := range want {
		if vals := got[k]; len(vals) != 1 || vals[0] != v {
			t.Errorf("param %s = %v, want %q", k, vals, v)
		}
	}
}

func TestQueryParams_OutOfRangeCoordinatesPassThrough(t *testing.T) {
	q := Query{
		PickupDatetime: "2025-06-01 12:00:00",
		Pickup:         types.Point{Lat: 123.5, Lng: -500},
		Dropoff:        types.Point{Lat: -91, Lng: 181.25},
		PassengerCount: 1,
	}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	p := q.Params()
	if p.Get("pickup_latitude") != "123.5" || p.Get("pickup_longitude") != "-500" {
		t.Errorf("unexpected pickup params: %v", p)
	}
	if p.Get("dropoff_latitude") != "-91" || p.Get("dropoff_longitude") != "181.25" {
		t.Errorf("unexpected dropoff params: %v", p)
	}
}

func TestQueryFromParams_RoundTrip(t *testing.T) {
	q, err := NewQuery("2025-06-01", "12:00", timesSquare, bryantPark, 4)
	if err != nil {
		t.Fatalf("NewQuery() error = %v", err)
	}
	back, err := QueryFromParams(q.Params())
	if err != nil {
		t.Fatalf("QueryFromParams() error = %v", err)
	}
	if back != q {
		t.Errorf("round trip = %+v, want %+v", back, q)
	}
}

func TestQueryFromParams_Errors(t *testing.T) {
	base := url.Values{
		"pickup_datetime":   {"2025-06-01 12:00:00"},
		"pickup_longitude":  {"-73.98"},
		"pickup_latitude":   {"40.75"},
		"dropoff_longitude": {"-73.99"},
		"dropoff_latitude":  {"40.76"},
		"passenger_count":   {"1"},
	}
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "datetime missing seconds", key: "pickup_datetime", value: "2025-06-01 12:00", wantErr: ErrInvalidDatetime},
		{name: "non numeric latitude", key: "pickup_latitude", value: "north", wantErr: ErrInvalidCoordinate},
		{name: "empty longitude", key: "dropoff_longitude", value: "", wantErr: ErrInvalidCoordinate},
		{name: "fractional passengers", key: "passenger_count", value: "1.5", wantErr: ErrInvalidPassengerCount},
		{name: "too many passengers", key: "passenger_count", value: "12", wantErr: ErrInvalidPassengerCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := url.Values{}
			for k, vals := range base {
				v[k] = append([]string(nil), vals...)
			}
			v.Set(tt.key, tt.value)
			if _, err := QueryFromParams(v); !errors.Is(err, tt.wantErr) {
				t.Errorf("QueryFromParams() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPointsFromParams(t *testing.T) {
	v := PointParams(timesSquare, bryantPark)
	if len(v) != 4 {
		t.Fatalf("PointParams() has %d keys, want 4", len(v))
	}
	pickup, dropoff, err := PointsFromParams(v)
	if err != nil {
		t.Fatalf("PointsFromParams() error = %v", err)
	}
	if pickup != timesSquare || dropoff != bryantPark {
		t.Errorf("got %v -> %v, want %v -> %v", pickup, dropoff, timesSquare, bryantPark)
	}

	v.Del(ParamDropoffLatitude)
	if _, _, err := PointsFromParams(v); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("missing dropoff latitude: err = %v, want ErrInvalidCoordinate", err)
	}
}
