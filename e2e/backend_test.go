//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// planningBackend is a minimal stand-in for the planning REST API
type planningBackend struct {
	*httptest.Server

	mu   sync.Mutex
	wind string
	puts int
}

func newPlanningBackend(t *testing.T) *planningBackend {
	t.Helper()
	b := &planningBackend{wind: "2"}
	mux := http.NewServeMux()

	list := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}
	}
	mux.HandleFunc("GET /api/eolienneparc", list(`[{"id":1,"nom":"Mistral Ridge"},{"id":2,"nom":"North Cape"}]`))
	mux.HandleFunc("GET /api/solaire", list(`[{"id":3,"nom":"Sun Valley"}]`))
	mux.HandleFunc("GET /api/thermique", list(`[]`))
	mux.HandleFunc("GET /api/nucleaire", list(`[]`))
	mux.HandleFunc("GET /api/hydro", list(`[{"id":7,"nom":"Grand Dam"}]`))
	mux.HandleFunc("GET /api/listeinfrastructures", list(`[{"id":4,"nom":"North"}]`))
	mux.HandleFunc("GET /api/scenario", list(`[{"id":9,"nom":"2030 baseline"}]`))

	mux.HandleFunc("GET /api/listeinfrastructures/4", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 4, "nom": "North", "parc_eoliens": b.wind})
	})
	mux.HandleFunc("PUT /api/listeinfrastructures/4", func(w http.ResponseWriter, r *http.Request) {
		var rec struct {
			Wind string `json:"parc_eoliens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.wind = rec.Wind
		b.puts++
		b.mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *planningBackend) state() (string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wind, b.puts
}
