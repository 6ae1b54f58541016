package cli

import (
	"fmt"
	"log"

	"weather/apis/openweathermap"
	"weather/config"
	"weather/history"
	"weather/manager"
	"weather/storage"
)

// runtime holds everything one command invocation works with. The history
// is loaded once here and owned by it until close.
type runtime struct {
	config  config.Config
	store   storage.Store
	recent  *history.History
	weather *manager.Manager
}

func open(configPath string, withProvider bool) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	rt := &runtime{config: cfg}

	if withProvider {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	rt.store, err = storage.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt.recent = history.Load(rt.store)

	if withProvider {
		api, err := openweathermap.New(cfg.OpenWeatherMap)
		if err != nil {
			rt.close()
			return nil, err
		}
		rt.weather = manager.New(api, rt.recent)
		rt.weather.SetName(api.Name())
	}

	return rt, nil
}

func (rt *runtime) close() {
	if rt.store == nil {
		return
	}
	if err := rt.store.Close(); err != nil {
		log.Println("warning: error closing store:", err)
	}
}
