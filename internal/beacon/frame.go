package beacon

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// FrameKind selects one of the framing conventions seen in the field.
// Used by the demo scanner and tests to synthesize realistic packets.
type FrameKind int

const (
	FrameStandard FrameKind = iota // company id + type + length header
	FramePrefixed                  // 2-byte vendor prefix before the header
	FrameBare                      // identity at offset 0, no header
)

// EncodeFrame builds an advertisement payload in the given convention.
// Decode recovers exactly the values passed in.
func EncodeFrame(kind FrameKind, id uuid.UUID, major, minor uint16, tx int8) []byte {
	body := make([]byte, 21)
	copy(body, id[:])
	binary.BigEndian.PutUint16(body[16:], major)
	binary.BigEndian.PutUint16(body[18:], minor)
	body[20] = byte(tx)

	switch kind {
	case FramePrefixed:
		buf := make([]byte, 0, 27)
		buf = append(buf, 0xDE, 0xAD) // vendor prefix, contents don't matter
		buf = append(buf, header()...)
		return append(buf, body...)
	case FrameBare:
		// Padded to the 25-byte minimum so the exact-layout path accepts it.
		buf := make([]byte, 0, 25)
		buf = append(buf, body...)
		return append(buf, 0, 0, 0, 0)
	default:
		buf := make([]byte, 0, 25)
		buf = append(buf, header()...)
		return append(buf, body...)
	}
}

func header() []byte {
	// Company id is transmitted little-endian on the air.
	return []byte{companyID & 0xFF, companyID >> 8, frameType, frameLen}
}
