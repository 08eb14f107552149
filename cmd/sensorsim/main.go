// Command sensorsim plays the role of a field device: it sends encoded
// telemetry datagrams to a running bridge at a fixed interval, drifting
// the values a little between packets.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"time"

	"telemetry-bridge/internal/codec"
	"telemetry-bridge/internal/domain"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7004", "bridge UDP address")
	interval := flag.Duration("interval", 10*time.Second, "delay between readings")
	count := flag.Int("count", 0, "number of readings to send, 0 for unlimited")
	flag.Parse()

	conn, err := net.Dial("udp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	reading := domain.Reading{Temperature: 21.5, Humidity: 45.0, CO2PPM: 410}

	for sent := 0; *count == 0 || sent < *count; sent++ {
		if sent > 0 {
			time.Sleep(*interval)
		}

		if _, err := conn.Write(codec.Encode(reading)); err != nil {
			fmt.Fprintf(os.Stderr, "send: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("sent temperature=%.2f humidity=%.2f co2_ppm=%d\n",
			reading.Temperature, reading.Humidity, reading.CO2PPM)

		reading = drift(rnd, reading)
	}
}

func drift(rnd *rand.Rand, r domain.Reading) domain.Reading {
	r.Temperature += float32(rnd.Float64() - 0.5)
	r.Humidity = clamp(r.Humidity+float32((rnd.Float64()-0.5)*2), 0, 100)
	r.CO2PPM = uint16(max(0, int(r.CO2PPM)+rnd.Intn(21)-10))
	return r
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
