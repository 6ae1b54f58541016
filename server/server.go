package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"weather/apis/openweathermap"
	"weather/forecast"
	"weather/history"
	"weather/manager"
)

type Lookup interface {
	Get(ctx context.Context, query string) (manager.Report, error)
}

type Recent interface {
	Cities() []history.City
}

// Server exposes lookups and the recent city list as JSON.
type Server struct {
	lookup Lookup
	recent Recent
	router *mux.Router
}

func New(lookup Lookup, recent Recent) *Server {
	s := &Server{lookup: lookup, recent: recent, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/weather", s.handleWeather).Methods(http.MethodGet)
	api.HandleFunc("/recent", s.handleRecent).Methods(http.MethodGet)
}

type currentView struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	LocalTime   string  `json:"localTime"`
	Temperature int     `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Description string  `json:"description"`
	IconURL     string  `json:"iconUrl"`
}

type uvView struct {
	Value float64 `json:"value"`
	Level string  `json:"level"`
}

type dayView struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	MinTemp   *int   `json:"minTemp,omitempty"`
	MaxTemp   *int   `json:"maxTemp,omitempty"`
	Humidity  *int   `json:"humidity,omitempty"`
	IconURL   string `json:"iconUrl,omitempty"`
}

type reportView struct {
	Provider      string           `json:"provider"`
	Current       currentView      `json:"current"`
	UV            *uvView          `json:"uv,omitempty"`
	UVError       string           `json:"uvError,omitempty"`
	Forecast      []dayView        `json:"forecast,omitempty"`
	ForecastError string           `json:"forecastError,omitempty"`
	Recent        []history.Button `json:"recent"`
}

// GET /api/weather?q=<city>
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	report, err := s.lookup.Get(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	view := reportView{
		Provider: report.Provider,
		Current: currentView{
			City:        report.Current.City,
			Country:     report.Current.Country,
			LocalTime:   report.Current.LocalTime().Format("Mon, Jan 2 15:04"),
			Temperature: roundInt(report.Current.Temperature),
			Humidity:    report.Current.Humidity,
			WindSpeed:   report.Current.WindSpeed,
			Description: report.Current.Description,
			IconURL:     openweathermap.IconURL(report.Current.Icon),
		},
		Recent: history.Render(s.recent.Cities()),
	}

	if report.UVErr != nil {
		view.UVError = report.UVErr.Error()
	} else {
		view.UV = &uvView{Value: report.UV.Value, Level: report.UV.Level()}
	}

	if report.ForecastErr != nil {
		view.ForecastError = report.ForecastErr.Error()
	}
	for _, day := range report.Days {
		view.Forecast = append(view.Forecast, newDayView(day))
	}

	writeJSON(w, http.StatusOK, view)
}

// GET /api/recent
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, history.Render(s.recent.Cities()))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	message := err.Error()

	var apiErr *openweathermap.APIError
	switch {
	case errors.Is(err, manager.ErrEmptyQuery):
		status = http.StatusBadRequest
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
		message = apiErr.Message
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, map[string]string{"message": message})
}

func newDayView(day forecast.DailySummary) dayView {
	view := dayView{Date: day.DateLabel(), Available: day.Available}
	if !day.Available {
		return view
	}

	minTemp, maxTemp, humidity := day.RoundedMin(), day.RoundedMax(), day.RoundedHumidity()
	view.MinTemp = &minTemp
	view.MaxTemp = &maxTemp
	view.Humidity = &humidity
	view.IconURL = openweathermap.IconURL(day.Icon)

	return view
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("error encoding response:", err)
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// ListenAndServe runs the server on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
