package manager

import (
	"context"
	"time"

	"weather/forecast"
	"weather/history"
)

// Provider is the weather data source queried for one lookup.
type Provider interface {
	Current(ctx context.Context, query string) (Current, error)
	Forecast(ctx context.Context, query string) (Forecast, error)
	UVIndex(ctx context.Context, coord Coord) (UVIndex, error)
}

// Recorder receives every city that was looked up successfully.
type Recorder interface {
	Push(city history.City)
}

type Coord struct {
	Lat float64
	Lon float64
}

type Current struct {
	City           string
	Country        string
	Coord          Coord
	Temperature    float64
	Humidity       int
	WindSpeed      float64
	Icon           string
	Description    string
	TimezoneOffset int
	Time           time.Time
}

// LocalTime is the wall clock at the looked up location, expressed in UTC.
func (c Current) LocalTime() time.Time {
	return c.Time.UTC().Add(time.Duration(c.TimezoneOffset) * time.Second)
}

type Forecast struct {
	City           string
	Country        string
	TimezoneOffset int
	Samples        []forecast.Sample
}

type Report struct {
	Provider string
	Current  Current
	UV       UVIndex
	UVErr    error
	Days     []forecast.DailySummary

	// ForecastErr is set when the forecast could not be fetched; Days is nil then.
	ForecastErr error
}
