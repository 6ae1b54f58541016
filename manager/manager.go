package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weather/forecast"
	"weather/history"
)

var ErrEmptyQuery = errors.New("empty city query")

func New(provider Provider, recorder Recorder) *Manager {
	return &Manager{
		provider: provider,
		recorder: recorder,
		now:      time.Now,
	}
}

type Manager struct {
	provider Provider
	recorder Recorder
	name     string
	now      func() time.Time
}

func (m *Manager) SetName(name string) {
	m.name = name
}

// SetClock replaces the clock used for the "today" of the forecast.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Get looks up query. The forecast request runs alongside the current
// conditions; the UV index needs the coordinates of the current conditions
// and is fetched after them. Only a failed current conditions lookup is an
// error, the other two are reported in the Report.
func (m *Manager) Get(ctx context.Context, query string) (Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Report{}, ErrEmptyQuery
	}

	type forecastResult struct {
		forecast Forecast
		err      error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	forecastChannel := make(chan forecastResult, 1)
	go func() {
		f, err := m.provider.Forecast(ctx, query)
		forecastChannel <- forecastResult{forecast: f, err: err}
	}()

	current, err := m.provider.Current(ctx, query)
	if err != nil {
		return Report{}, fmt.Errorf("current weather for %q: %w", query, err)
	}

	if m.recorder != nil {
		m.recorder.Push(history.City{Name: current.City, Country: current.Country})
	}

	report := Report{Provider: m.name, Current: current}

	report.UV, err = m.provider.UVIndex(ctx, current.Coord)
	if err != nil {
		report.UVErr = fmt.Errorf("uv index: %w", err)
	}

	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case res := <-forecastChannel:
		if res.err != nil {
			report.ForecastErr = fmt.Errorf("forecast: %w", res.err)
			break
		}
		report.Days = forecast.Aggregate(res.forecast.Samples, res.forecast.TimezoneOffset, m.now())
	}

	return report, nil
}
