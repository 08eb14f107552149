package ingest_test

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"telemetry-bridge/internal/codec"
	"telemetry-bridge/internal/domain"
	"telemetry-bridge/internal/ingest"
)

type recordingSink struct {
	mu       sync.Mutex
	readings []domain.Reading
}

func (s *recordingSink) Set(reading domain.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, reading)
}

func (s *recordingSink) snapshot() []domain.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

type listenerFixture struct {
	listener *ingest.Listener
	sink     *recordingSink
	metrics  *ingest.Metrics
	conn     net.Conn
	runErr   chan error
	cancel   context.CancelFunc
}

func startListener(t *testing.T) *listenerFixture {
	t.Helper()

	sink := &recordingSink{}
	metrics := ingest.NewMetrics(prometheus.NewRegistry())

	listener, err := ingest.New(ingest.Config{Port: 0}, sink, zap.NewNop(), metrics)
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- listener.Run(ctx)
	}()

	port := listener.Addr().(*net.UDPAddr).Port
	conn, err := net.Dial("udp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		cancel()
		t.Fatalf("failed to dial listener: %v", err)
	}

	fixture := &listenerFixture{
		listener: listener,
		sink:     sink,
		metrics:  metrics,
		conn:     conn,
		runErr:   runErr,
		cancel:   cancel,
	}
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-runErr:
			if err != nil {
				t.Errorf("listener returned error on shutdown: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("listener did not stop after cancellation")
		}
	})

	return fixture
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestListenerAppliesValidDatagrams(t *testing.T) {
	fixture := startListener(t)

	first := domain.Reading{Temperature: 21.5, Humidity: 45.0, CO2PPM: 410}
	second := domain.Reading{Temperature: 22.0, Humidity: 44.5, CO2PPM: 415}

	for _, reading := range []domain.Reading{first, second} {
		if _, err := fixture.conn.Write(codec.Encode(reading)); err != nil {
			t.Fatalf("failed to send datagram: %v", err)
		}
		reading := reading
		waitFor(t, func() bool {
			readings := fixture.sink.snapshot()
			return len(readings) > 0 && readings[len(readings)-1] == reading
		})
	}

	readings := fixture.sink.snapshot()
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	if readings[0] != first || readings[1] != second {
		t.Fatalf("expected readings in arrival order, got %+v", readings)
	}
	if got := testutil.ToFloat64(fixture.metrics.Received); got != 2 {
		t.Fatalf("expected 2 received datagrams counted, got %v", got)
	}
}

func TestListenerRejectsWrongLengthAndContinues(t *testing.T) {
	fixture := startListener(t)

	valid := domain.Reading{Temperature: 21.5, Humidity: 45.0, CO2PPM: 410}
	if _, err := fixture.conn.Write(codec.Encode(valid)); err != nil {
		t.Fatalf("failed to send datagram: %v", err)
	}
	waitFor(t, func() bool { return len(fixture.sink.snapshot()) == 1 })

	// A short and an oversized datagram, neither may reach the sink or
	// stop the loop.
	for _, length := range []int{9, 11} {
		if _, err := fixture.conn.Write(make([]byte, length)); err != nil {
			t.Fatalf("failed to send %d-byte datagram: %v", length, err)
		}
	}
	waitFor(t, func() bool {
		return testutil.ToFloat64(fixture.metrics.Rejected.WithLabelValues("invalid_length")) == 2
	})

	if readings := fixture.sink.snapshot(); len(readings) != 1 || readings[0] != valid {
		t.Fatalf("expected sink untouched by rejected datagrams, got %+v", readings)
	}

	// The loop keeps accepting after rejects.
	next := domain.Reading{Temperature: 19.25, Humidity: 50.0, CO2PPM: 600}
	if _, err := fixture.conn.Write(codec.Encode(next)); err != nil {
		t.Fatalf("failed to send datagram: %v", err)
	}
	waitFor(t, func() bool {
		readings := fixture.sink.snapshot()
		return len(readings) == 2 && readings[1] == next
	})
}

func TestListenerStopsOnCancel(t *testing.T) {
	sink := &recordingSink{}
	listener, err := ingest.New(ingest.Config{Port: 0}, sink, zap.NewNop(), ingest.NewMetrics(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- listener.Run(ctx)
	}()

	cancel()

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("expected nil error on cancellation, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("listener did not stop after cancellation")
	}
}
