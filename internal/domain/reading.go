package domain

// Reading is one decoded telemetry datagram. It exists only between a
// successful decode and the store update that consumes it.
type Reading struct {
	Temperature float32
	Humidity    float32
	CO2PPM      uint16
}

// Snapshot carries the current value of every gauge at one point in
// time. Each field is individually consistent, but the fields may come
// from different readings when a scrape overlaps an update.
type Snapshot struct {
	Temperature float64
	Humidity    float64
	CO2PPM      float64
}
