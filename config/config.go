package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"weather/apis/openweathermap"
	"weather/storage"
)

type Config struct {
	OpenWeatherMap openweathermap.Config `yaml:"api.openweathermap.org" toml:"openweathermap"`
	Storage        storage.Config        `yaml:"storage" toml:"storage"`
	Server         Server                `yaml:"server" toml:"server"`
}

type Server struct {
	Addr string `yaml:"addr" toml:"addr"`
}

func Default() Config {
	return Config{
		OpenWeatherMap: openweathermap.Config{
			BaseURL: openweathermap.DefaultBaseURL,
			Units:   "metric",
			Timeout: "10s",
		},
		Storage: storage.Config{
			Driver: storage.DriverFile,
			Path:   defaultStoragePath(),
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads path on top of Default and applies environment overrides.
// A missing file is not an error. Variables from a .env file in the working
// directory are loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	config := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := decode(path, raw, &config); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(&config)

	return config, nil
}

func (c Config) Validate() error {
	if c.OpenWeatherMap.APIKey == "" {
		return errors.New("api.openweathermap.org apiKey is not set (config file or OPENWEATHERMAP_API_KEY)")
	}
	return nil
}

func decode(path string, raw []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(raw, config)
	default:
		return yaml.Unmarshal(raw, config)
	}
}

func applyEnv(config *Config) {
	if v := os.Getenv("OPENWEATHERMAP_API_KEY"); v != "" {
		config.OpenWeatherMap.APIKey = v
	}
	if v := os.Getenv("WEATHER_STORAGE_DRIVER"); v != "" {
		config.Storage.Driver = v
	}
	if v := os.Getenv("WEATHER_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("WEATHER_ADDR"); v != "" {
		config.Server.Addr = v
	}
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".weather"
	}
	return filepath.Join(dir, "weather")
}
