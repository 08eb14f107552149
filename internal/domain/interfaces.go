package domain

// ReadingSink consumes decoded readings produced by the ingest loop.
type ReadingSink interface {
	Set(reading Reading)
}

// SnapshotSource exposes the current gauge values to readers.
type SnapshotSource interface {
	Snapshot() Snapshot
}

// ReadingStore aggregates the write and read capabilities of the metric
// state shared between ingestion and exposition.
type ReadingStore interface {
	ReadingSink
	SnapshotSource
}
