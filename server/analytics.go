package main

import (
	"encoding/json"
	"net/http"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/rotisserie/eris"
)

// Metric names
var (
	keyConnections    = []string{"connections"}
	keyDisconnections = []string{"disconnections"}
	keyRejected       = []string{"rejected"}
	keyMessages       = []string{"messages"}
	keyProtocolErrors = []string{"protocol_errors"}
	keyConflicts      = []string{"collision_conflicts"}
	keyDropped        = []string{"collision_dropped"}
	keyRounds         = []string{"rounds"}
	keyMatches        = []string{"matches"}
	keyClients        = []string{"clients"}
	keyRooms          = []string{"rooms"}
)

// Stats records relay counters and gauges in memory and serves the
// current interval at /metrics.
type Stats struct {
	m    *metrics.Metrics
	sink *metrics.InmemSink
}

// NewStats keeps one minute of ten second intervals
func NewStats(service string) (*Stats, error) {
	sink := metrics.NewInmemSink(10*time.Second, time.Minute)
	cfg := metrics.DefaultConfig(service)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false
	m, err := metrics.New(cfg, sink)
	if err != nil {
		return nil, eris.Wrap(err, "init metrics")
	}
	return &Stats{m: m, sink: sink}, nil
}

// Incr bumps a counter by one
func (s *Stats) Incr(key []string) {
	if s == nil {
		return
	}
	s.m.IncrCounter(key, 1)
}

// Gauge sets a gauge
func (s *Stats) Gauge(key []string, v int) {
	if s == nil {
		return
	}
	s.m.SetGauge(key, float32(v))
}

// ServeHTTP writes the current metrics summary as JSON
func (s *Stats) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	summary, err := s.sink.DisplayMetrics(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}
