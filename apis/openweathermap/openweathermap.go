package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"weather/forecast"
	"weather/manager"
)

const (
	apiName        = "api.openweathermap.org"
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

type Config struct {
	APIKey  string `yaml:"apiKey" toml:"apiKey"`
	BaseURL string `yaml:"baseURL" toml:"baseURL"`
	Units   string `yaml:"units" toml:"units"`
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// APIError is returned for any non-200 answer. Message is the provider's
// own explanation, e.g. "city not found".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status code: %d: %s", e.StatusCode, e.Message)
}

func New(config Config) (*weatherApi, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%s: api key is required", apiName)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Units == "" {
		config.Units = "metric"
	}

	client := resty.New().SetBaseURL(config.BaseURL)
	if config.Timeout != "" {
		timeout, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%s: timeout: %w", apiName, err)
		}
		client.SetTimeout(timeout)
	}

	return &weatherApi{
		apiKey: config.APIKey,
		units:  config.Units,
		client: client,
	}, nil
}

type weatherApi struct {
	apiKey string
	units  string
	client *resty.Client
}

func (w *weatherApi) Name() string {
	return apiName
}

func (w *weatherApi) Current(ctx context.Context, query string) (manager.Current, error) {
	var r struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Sys struct {
			Country string `json:"country"`
		} `json:"sys"`
		Timezone int   `json:"timezone"`
		Dt       int64 `json:"dt"`
	}

	err := w.get(ctx, "/weather", w.cityParams(query), &r)
	if err != nil {
		return manager.Current{}, err
	}

	current := manager.Current{
		City:           r.Name,
		Country:        r.Sys.Country,
		Coord:          manager.Coord{Lat: r.Coord.Lat, Lon: r.Coord.Lon},
		Temperature:    r.Main.Temp,
		Humidity:       r.Main.Humidity,
		WindSpeed:      r.Wind.Speed,
		TimezoneOffset: r.Timezone,
		Time:           time.Now().UTC(),
	}
	if len(r.Weather) > 0 {
		current.Icon = r.Weather[0].Icon
		current.Description = r.Weather[0].Description
	}

	return current, nil
}

func (w *weatherApi) Forecast(ctx context.Context, query string) (manager.Forecast, error) {
	var r struct {
		City struct {
			Name     string `json:"name"`
			Country  string `json:"country"`
			Timezone int    `json:"timezone"`
		} `json:"city"`
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Icon string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}

	err := w.get(ctx, "/forecast", w.cityParams(query), &r)
	if err != nil {
		return manager.Forecast{}, err
	}

	result := manager.Forecast{
		City:           r.City.Name,
		Country:        r.City.Country,
		TimezoneOffset: r.City.Timezone,
		Samples:        make([]forecast.Sample, 0, len(r.List)),
	}

	for _, item := range r.List {
		sample := forecast.Sample{
			Timestamp:   item.Dt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
		}
		if len(item.Weather) > 0 {
			sample.Icon = item.Weather[0].Icon
		}
		result.Samples = append(result.Samples, sample)
	}

	return result, nil
}

func (w *weatherApi) UVIndex(ctx context.Context, coord manager.Coord) (manager.UVIndex, error) {
	var r struct {
		Value float64 `json:"value"`
	}

	params := map[string]string{
		"appid": w.apiKey,
		"lat":   strconv.FormatFloat(coord.Lat, 'f', -1, 64),
		"lon":   strconv.FormatFloat(coord.Lon, 'f', -1, 64),
	}

	if err := w.get(ctx, "/uvi", params, &r); err != nil {
		return manager.UVIndex{}, err
	}

	return manager.UVIndex{Value: r.Value}, nil
}

func (w *weatherApi) cityParams(query string) map[string]string {
	return map[string]string{
		"q":     query,
		"appid": w.apiKey,
		"units": w.units,
	}
}

func (w *weatherApi) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	response, err := w.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return err
	}

	if response.StatusCode() != 200 {
		return newAPIError(response.StatusCode(), response.Body())
	}

	if err := json.Unmarshal(response.Body(), out); err != nil {
		return fmt.Errorf("%s%s: %w", apiName, path, err)
	}

	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		payload.Message = string(body)
	}

	return &APIError{StatusCode: status, Message: payload.Message}
}

func IconURL(code string) string {
	if code == "" {
		return ""
	}
	return "https://openweathermap.org/img/wn/" + code + ".png"
}

var _ manager.Provider = (*weatherApi)(nil)
