package history

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"weather/storage"
)

const (
	// Capacity is the maximum number of cities kept.
	Capacity = 5
	// Key names the persisted entry.
	Key = "recentCities"
)

type City struct {
	Name    string `json:"city"`
	Country string `json:"country"`
}

func (c City) Label() string {
	return c.Name + ", " + c.Country
}

// History is the newest-first list of recently looked up cities. Every Push
// is written through to the store before returning.
type History struct {
	mu     sync.RWMutex
	cities []City
	store  storage.Store
}

// Load restores the history from store. Missing or unreadable data yields an
// empty history.
func Load(store storage.Store) *History {
	h := &History{cities: make([]City, 0, Capacity), store: store}
	if store == nil {
		return h
	}

	data, err := store.Get(Key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Println("warning: failed to read recent cities:", err)
		}
		return h
	}

	var cities []City
	if err := json.Unmarshal(data, &cities); err != nil {
		log.Println("warning: discarding unparsable recent cities:", err)
		return h
	}

	if len(cities) > Capacity {
		cities = cities[:Capacity]
	}
	h.cities = append(h.cities, cities...)

	return h
}

// Push puts city in front, dropping the oldest entry when full. Duplicates
// are kept.
func (h *History) Push(city City) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.cities) == Capacity {
		h.cities = h.cities[:Capacity-1]
	}
	h.cities = append([]City{city}, h.cities...)

	if h.store == nil {
		return
	}

	data, err := json.Marshal(h.cities)
	if err != nil {
		log.Println("warning: failed to encode recent cities:", err)
		return
	}
	if err := h.store.Set(Key, data); err != nil {
		log.Println("warning: failed to persist recent cities:", err)
	}
}

func (h *History) Cities() []City {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]City, len(h.cities))
	copy(out, h.cities)
	return out
}

type Button struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// Render maps cities to buttons in the same order.
func Render(cities []City) []Button {
	buttons := make([]Button, 0, len(cities))
	for _, city := range cities {
		buttons = append(buttons, Button{Label: city.Label(), Query: city.Label()})
	}

	return buttons
}
