package napster

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/WendelHime/napcheck/internal/decoder"
	"github.com/WendelHime/napcheck/internal/shared/models"
)

var ErrPayloadTooLarge = errors.New("payload exceeds 65535 bytes")

const headerLength = 4

// Encode builds a frame: u16 payload length, u16 opcode, both little-endian,
// then the payload.
func Encode(op models.Opcode, payload []byte) ([]byte, error) {
	if len(payload) > models.MaxPayload {
		return nil, ErrPayloadTooLarge
	}

	buf := make([]byte, headerLength, headerLength+len(payload))
	binary.LittleEndian.PutUint16(buf[0:], uint16(len(payload)))
	binary.LittleEndian.PutUint16(buf[2:], uint16(op))
	buf = append(buf, payload...)
	return buf, nil
}

// Decode reads one frame from r.
func Decode(r io.Reader) (models.Frame, error) {
	header, err := decoder.ReadBytes(r, headerLength)
	if err != nil {
		return models.Frame{}, err
	}

	length := int(binary.LittleEndian.Uint16(header[0:]))
	frame := models.Frame{
		Opcode:  models.Opcode(binary.LittleEndian.Uint16(header[2:])),
		Payload: make([]byte, 0),
	}
	if length > 0 {
		frame.Payload, err = decoder.ReadBytes(r, length)
		if err != nil {
			return models.Frame{}, err
		}
	}

	return frame, nil
}
