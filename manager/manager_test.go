package manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather/forecast"
	"weather/history"
)

type fakeProvider struct {
	current     Current
	currentErr  error
	forecast    Forecast
	forecastErr error
	uv          UVIndex
	uvErr       error

	uvCoord         Coord
	forecastStarted chan struct{}
}

func (f *fakeProvider) Current(ctx context.Context, query string) (Current, error) {
	if f.forecastStarted != nil {
		<-f.forecastStarted
	}
	return f.current, f.currentErr
}

func (f *fakeProvider) Forecast(ctx context.Context, query string) (Forecast, error) {
	if f.forecastStarted != nil {
		close(f.forecastStarted)
		<-ctx.Done()
		return Forecast{}, ctx.Err()
	}
	return f.forecast, f.forecastErr
}

func (f *fakeProvider) UVIndex(ctx context.Context, coord Coord) (UVIndex, error) {
	f.uvCoord = coord
	return f.uv, f.uvErr
}

type recorder struct {
	cities []history.City
}

func (r *recorder) Push(city history.City) {
	r.cities = append(r.cities, city)
}

var fixedNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func okProvider() *fakeProvider {
	tomorrow := time.Date(2024, time.June, 2, 12, 0, 0, 0, time.UTC).Unix()
	return &fakeProvider{
		current: Current{
			City:    "Berlin",
			Country: "DE",
			Coord:   Coord{Lat: 52.52, Lon: 13.41},
		},
		forecast: Forecast{
			Samples: []forecast.Sample{
				{Timestamp: tomorrow, Temperature: 18, Humidity: 55, Icon: "01d"},
				{Timestamp: tomorrow + 3*3600, Temperature: 22, Humidity: 45, Icon: "02d"},
			},
		},
		uv: UVIndex{Value: 7.2},
	}
}

func TestGet(t *testing.T) {
	provider := okProvider()
	rec := &recorder{}
	m := New(provider, rec)
	m.SetName("OpenWeatherMap")
	m.SetClock(func() time.Time { return fixedNow })

	report, err := m.Get(context.Background(), "  Berlin ")
	require.NoError(t, err)

	assert.Equal(t, "OpenWeatherMap", report.Provider)
	assert.Equal(t, "Berlin", report.Current.City)
	assert.Equal(t, Coord{Lat: 52.52, Lon: 13.41}, provider.uvCoord)
	assert.Equal(t, 7.2, report.UV.Value)
	assert.NoError(t, report.UVErr)
	assert.NoError(t, report.ForecastErr)

	require.Len(t, report.Days, forecast.Days)
	assert.True(t, report.Days[0].Available)
	assert.Equal(t, 18.0, report.Days[0].MinTemp)
	assert.Equal(t, 22.0, report.Days[0].MaxTemp)
	assert.Equal(t, 50.0, report.Days[0].AvgHumidity)

	assert.Equal(t, []history.City{{Name: "Berlin", Country: "DE"}}, rec.cities)
}

func TestGetEmptyQuery(t *testing.T) {
	m := New(okProvider(), nil)

	_, err := m.Get(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestGetCurrentFailureIsTerminal(t *testing.T) {
	provider := okProvider()
	provider.currentErr = errors.New("city not found")
	provider.forecastStarted = make(chan struct{})
	rec := &recorder{}

	report, err := New(provider, rec).Get(context.Background(), "Atlantis")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "city not found")
	assert.Equal(t, Report{}, report)
	assert.Empty(t, rec.cities)
}

func TestGetSecondaryFailuresAreReported(t *testing.T) {
	provider := okProvider()
	provider.forecastErr = errors.New("forecast down")
	provider.uvErr = errors.New("uvi down")
	rec := &recorder{}

	report, err := New(provider, rec).Get(context.Background(), "Berlin")
	require.NoError(t, err)

	assert.ErrorContains(t, report.ForecastErr, "forecast down")
	assert.ErrorContains(t, report.UVErr, "uvi down")
	assert.Nil(t, report.Days)
	assert.Equal(t, "Berlin", report.Current.City)
	assert.Len(t, rec.cities, 1)
}

func TestUVLevel(t *testing.T) {
	tests := map[float64]string{
		0:    "green",
		3:    "green",
		3.1:  "yellow",
		6:    "yellow",
		7.5:  "orange",
		8:    "orange",
		10:   "red",
		11:   "red",
		11.5: "violet",
	}

	for value, level := range tests {
		assert.Equal(t, level, UVIndex{Value: value}.Level(), "uv %v", value)
	}
}

func TestLocalTime(t *testing.T) {
	c := Current{Time: time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), TimezoneOffset: 3600}

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), c.LocalTime())
}
