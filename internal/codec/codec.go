package codec

import (
	"encoding/binary"
	"math"

	"telemetry-bridge/internal/domain"
)

// PacketSize is the exact length of a telemetry datagram: two
// big-endian float32 fields followed by a big-endian uint16.
const PacketSize = 10

// Decode parses one datagram into a Reading. Pure function: the input
// is either accepted whole or rejected whole, nothing is mutated.
func Decode(data []byte) (domain.Reading, error) {
	if len(data) != PacketSize {
		return domain.Reading{}, domain.InvalidLengthError{Length: len(data)}
	}

	return domain.Reading{
		Temperature: math.Float32frombits(binary.BigEndian.Uint32(data[0:4])),
		Humidity:    math.Float32frombits(binary.BigEndian.Uint32(data[4:8])),
		CO2PPM:      binary.BigEndian.Uint16(data[8:10]),
	}, nil
}

// Encode serialises a Reading into the wire layout. The result is
// always PacketSize bytes.
func Encode(reading domain.Reading) []byte {
	buf := make([]byte, PacketSize)
	binary.BigEndian.PutUint32(buf[0:4], math.Float32bits(reading.Temperature))
	binary.BigEndian.PutUint32(buf[4:8], math.Float32bits(reading.Humidity))
	binary.BigEndian.PutUint16(buf[8:10], reading.CO2PPM)
	return buf
}
