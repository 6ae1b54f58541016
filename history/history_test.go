package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather/storage"
)

type memStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(key string, value []byte) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Close() error { return nil }

func city(i int) City {
	return City{Name: fmt.Sprintf("City%d", i), Country: "XX"}
}

func TestPushBound(t *testing.T) {
	for n := 0; n <= 12; n++ {
		h := Load(newMemStore())
		for i := 1; i <= n; i++ {
			h.Push(city(i))
		}
		assert.Len(t, h.Cities(), min(n, Capacity), "after %d pushes", n)
	}
}

func TestPushNewestFirst(t *testing.T) {
	h := Load(newMemStore())

	h.Push(city(1))
	h.Push(city(2))
	h.Push(city(3))

	assert.Equal(t, []City{city(3), city(2), city(1)}, h.Cities())
}

func TestPushEvictsOldest(t *testing.T) {
	h := Load(newMemStore())
	for i := 1; i <= 5; i++ {
		h.Push(city(i))
	}
	require.Equal(t, []City{city(5), city(4), city(3), city(2), city(1)}, h.Cities())

	h.Push(city(6))

	assert.Equal(t, []City{city(6), city(5), city(4), city(3), city(2)}, h.Cities())
}

func TestPushKeepsDuplicates(t *testing.T) {
	h := Load(newMemStore())

	h.Push(City{Name: "Paris", Country: "FR"})
	h.Push(City{Name: "Paris", Country: "FR"})

	assert.Len(t, h.Cities(), 2)
}

func TestPushPersistsAndReloads(t *testing.T) {
	store := newMemStore()
	h := Load(store)

	h.Push(City{Name: "Lima", Country: "PE"})
	h.Push(City{Name: "Quito", Country: "EC"})

	assert.Equal(t, 2, store.sets)
	assert.JSONEq(t, `[{"city":"Quito","country":"EC"},{"city":"Lima","country":"PE"}]`, string(store.data[Key]))

	reloaded := Load(store)
	assert.Equal(t, h.Cities(), reloaded.Cities())
}

func TestPushSurvivesStoreFailure(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("disk full")
	h := Load(store)

	h.Push(city(1))

	assert.Equal(t, []City{city(1)}, h.Cities())
}

func TestLoadFallsBackToEmpty(t *testing.T) {
	tests := map[string]*memStore{
		"absent":    newMemStore(),
		"corrupt":   {data: map[string][]byte{Key: []byte("{not json")}},
		"wrong":     {data: map[string][]byte{Key: []byte(`{"city":"Rome"}`)}},
		"read fail": {data: map[string][]byte{}, getErr: errors.New("io")},
	}

	for name, store := range tests {
		t.Run(name, func(t *testing.T) {
			h := Load(store)
			require.NotNil(t, h)
			assert.Empty(t, h.Cities())
		})
	}

	assert.Empty(t, Load(nil).Cities())
}

func TestLoadTruncatesOversizedHistory(t *testing.T) {
	store := newMemStore()
	store.data[Key] = []byte(`[{"city":"A","country":"1"},{"city":"B","country":"2"},{"city":"C","country":"3"},
		{"city":"D","country":"4"},{"city":"E","country":"5"},{"city":"F","country":"6"}]`)

	h := Load(store)

	require.Len(t, h.Cities(), Capacity)
	assert.Equal(t, "A", h.Cities()[0].Name)
	assert.Equal(t, "E", h.Cities()[4].Name)
}

func TestCitiesReturnsCopy(t *testing.T) {
	h := Load(newMemStore())
	h.Push(city(1))

	got := h.Cities()
	got[0].Name = "changed"

	assert.Equal(t, "City1", h.Cities()[0].Name)
}

func TestRender(t *testing.T) {
	buttons := Render([]City{{Name: "Sydney", Country: "AU"}, {Name: "Cairo", Country: "EG"}})

	assert.Equal(t, []Button{
		{Label: "Sydney, AU", Query: "Sydney, AU"},
		{Label: "Cairo, EG", Query: "Cairo, EG"},
	}, buttons)
	assert.Empty(t, Render(nil))
}
