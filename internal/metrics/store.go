package metrics

import (
	"math"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"telemetry-bridge/internal/domain"
)

var (
	temperatureDesc = prometheus.NewDesc("temperature", "Current temperature in Celsius", nil, nil)
	humidityDesc    = prometheus.NewDesc("humidity", "Current humidity percentage", nil, nil)
	co2Desc         = prometheus.NewDesc("co2_ppm", "Current CO2 concentration in ppm", nil, nil)
)

// Store holds the most recent value of each measured quantity. A single
// ingest goroutine writes it; scrape handlers read it concurrently.
// Every gauge is stored as an atomic float64 bit pattern, so a reader
// never observes a torn field, but the three fields are not updated as
// one transaction: a scrape overlapping a Set may mix fields from two
// readings.
type Store struct {
	temperature atomic.Uint64
	humidity    atomic.Uint64
	co2         atomic.Uint64
}

// New creates a store with every gauge at zero.
func New() *Store {
	return &Store{}
}

// Set overwrites all three gauges with the reading's fields. Values are
// published exactly as decoded; no plausibility checks are applied.
func (s *Store) Set(reading domain.Reading) {
	s.temperature.Store(math.Float64bits(float64(reading.Temperature)))
	s.humidity.Store(math.Float64bits(float64(reading.Humidity)))
	s.co2.Store(math.Float64bits(float64(reading.CO2PPM)))
}

// Snapshot returns the current gauge values. Safe to call at any time,
// including before the first reading has arrived.
func (s *Store) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Temperature: math.Float64frombits(s.temperature.Load()),
		Humidity:    math.Float64frombits(s.humidity.Load()),
		CO2PPM:      math.Float64frombits(s.co2.Load()),
	}
}

// Describe implements prometheus.Collector.
func (s *Store) Describe(ch chan<- *prometheus.Desc) {
	ch <- temperatureDesc
	ch <- humidityDesc
	ch <- co2Desc
}

// Collect implements prometheus.Collector by emitting the snapshot as
// three gauges.
func (s *Store) Collect(ch chan<- prometheus.Metric) {
	snap := s.Snapshot()
	ch <- prometheus.MustNewConstMetric(temperatureDesc, prometheus.GaugeValue, snap.Temperature)
	ch <- prometheus.MustNewConstMetric(humidityDesc, prometheus.GaugeValue, snap.Humidity)
	ch <- prometheus.MustNewConstMetric(co2Desc, prometheus.GaugeValue, snap.CO2PPM)
}

var (
	_ domain.ReadingStore  = (*Store)(nil)
	_ prometheus.Collector = (*Store)(nil)
)
