package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"telemetry-bridge/internal/codec"
	"telemetry-bridge/internal/domain"
)

const defaultBufferSize = 1500

// Config describes the listener's socket and read buffer.
type Config struct {
	Port       int
	BufferSize int
}

// Listener receives telemetry datagrams and applies decoded readings to
// the sink. One listener runs one blocking receive loop: datagrams are
// handled to completion in arrival order, and a rejected datagram never
// affects the ones after it.
type Listener struct {
	conn    *net.UDPConn
	sink    domain.ReadingSink
	logger  *zap.Logger
	metrics *Metrics
	bufSize int
}

// New opens the UDP socket on all interfaces and returns a listener
// ready to run. The sender is never answered; the socket is receive
// only.
func New(cfg Config, sink domain.ReadingSink, logger *zap.Logger, metrics *Metrics) (*Listener, error) {
	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}
	// The buffer must exceed the packet size so oversized datagrams are
	// observed at their real length instead of silently truncated to a
	// valid one.
	if bufSize <= codec.PacketSize {
		bufSize = codec.PacketSize + 1
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: cfg.Port})
	if err != nil {
		return nil, fmt.Errorf("listen udp :%d: %w", cfg.Port, err)
	}

	return &Listener{
		conn:    conn,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		bufSize: bufSize,
	}, nil
}

// Addr returns the bound socket address.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Run blocks receiving datagrams until the context is cancelled or the
// socket fails unrecoverably. Cancellation closes the socket and
// returns nil; an unexpected socket closure is returned to the caller,
// which should treat it as fatal for the ingestion responsibility.
func (l *Listener) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = l.conn.Close()
		case <-done:
			_ = l.conn.Close()
		}
	}()

	buf := make([]byte, l.bufSize)
	for {
		n, addr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				if ctx.Err() != nil {
					l.logger.Info("telemetry listener stopped")
					return nil
				}
				return fmt.Errorf("udp socket closed: %w", err)
			}
			l.metrics.ReadErrors.Inc()
			l.logger.Warn("udp receive failed", zap.Error(err))
			continue
		}

		l.handleDatagram(buf[:n], addr)
	}
}

func (l *Listener) handleDatagram(data []byte, addr *net.UDPAddr) {
	l.metrics.Received.Inc()

	reading, err := codec.Decode(data)
	if err != nil {
		l.reject(err, addr)
		return
	}

	l.sink.Set(reading)
	l.logger.Debug("reading accepted",
		zap.Stringer("sender", addr),
		zap.Float32("temperature", reading.Temperature),
		zap.Float32("humidity", reading.Humidity),
		zap.Uint16("co2_ppm", reading.CO2PPM),
	)
}

func (l *Listener) reject(err error, addr *net.UDPAddr) {
	var lengthErr domain.InvalidLengthError
	if errors.As(err, &lengthErr) {
		l.metrics.Rejected.WithLabelValues(reasonInvalidLength).Inc()
		l.logger.Warn("datagram rejected",
			zap.Stringer("sender", addr),
			zap.Int("length", lengthErr.Length),
		)
		return
	}

	l.metrics.Rejected.WithLabelValues(reasonMalformed).Inc()
	l.logger.Warn("datagram rejected",
		zap.Stringer("sender", addr),
		zap.Error(err),
	)
}
