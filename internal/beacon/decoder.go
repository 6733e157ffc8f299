package beacon

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"
)

// Observed framing constants. Real hardware in the field uses at least three
// different conventions for the same logical payload, so decoding tries an
// ordered list of layouts rather than assuming one.
const (
	companyID = 0x004C // Bluetooth SIG company identifier carried by the header
	frameType = 0x02   // proximity frame marker
	frameLen  = 0x15   // payload length marker (21 bytes after the header)

	minFrameLen = 25 // shortest buffer any exact layout can match
	minScanLen  = 21 // shortest buffer the permissive pattern scan accepts
)

var (
	// ErrBufferTooShort means the buffer cannot hold any candidate layout.
	ErrBufferTooShort = errors.New("beacon: buffer too short")
	// ErrUnrecognizedFormat means no layout matched. Expected and frequent;
	// most BLE traffic is not ours.
	ErrUnrecognizedFormat = errors.New("beacon: unrecognized frame format")
)

// layout describes one byte-level framing convention as offsets plus
// expected header constants. Field offsets are all relative to uuidOffset:
// 16-byte identity, big-endian u16 major, big-endian u16 minor, signed
// 8-bit tx power.
type layout struct {
	name       string
	headerOff  int // company id position; -1 when the layout has no header
	uuidOffset int
}

// Candidate layouts in priority order. The prefix variant carries a 2-byte
// vendor prefix that shifts every offset by +2; the bare variant has no
// header at all.
var layouts = []layout{
	{name: "standard", headerOff: 0, uuidOffset: 4},
	{name: "prefixed", headerOff: 2, uuidOffset: 6},
	{name: "bare", headerOff: -1, uuidOffset: 0},
}

// Decoder turns raw advertisement bytes plus an observed RSSI into a
// structured Advertisement. Pure; safe for concurrent use.
type Decoder struct {
	// Permissive enables the byte-pattern fallback scan. Off by default:
	// the exact layouts are unambiguous, the scan can false-positive on
	// unrelated traffic.
	Permissive bool
	// Signature is the 2-byte prefix the permissive scan looks for,
	// normally the first two bytes of the expected proximity UUID.
	Signature [2]byte
}

// NewDecoder returns a decoder whose permissive scan keys on the first two
// bytes of the target identity.
func NewDecoder(target string, permissive bool) (*Decoder, error) {
	t, err := uuid.Parse(target)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		Permissive: permissive,
		Signature:  [2]byte{t[0], t[1]},
	}, nil
}

// Decode tries each layout in order and returns the first structural match.
// Failures are non-fatal; the caller drops the packet.
func (d *Decoder) Decode(buf []byte, rssi int16) (Advertisement, error) {
	if len(buf) < minFrameLen {
		if d.Permissive && len(buf) >= minScanLen {
			return d.scan(buf, rssi)
		}
		return Advertisement{}, ErrBufferTooShort
	}

	for _, l := range layouts {
		if !d.layoutMatches(l, buf) {
			continue
		}
		return extract(buf, l.uuidOffset, rssi), nil
	}

	if d.Permissive {
		return d.scan(buf, rssi)
	}
	return Advertisement{}, ErrUnrecognizedFormat
}

// layoutMatches checks the header constants without extracting anything.
// The headerless layout has no markers to test, so the only structure it
// can be checked against is the identity prefix itself.
func (d *Decoder) layoutMatches(l layout, buf []byte) bool {
	if len(buf) < l.uuidOffset+21 {
		return false
	}
	if l.headerOff < 0 {
		return buf[0] == d.Signature[0] && buf[1] == d.Signature[1]
	}
	id := binary.BigEndian.Uint16(buf[l.headerOff:])
	idLE := binary.LittleEndian.Uint16(buf[l.headerOff:])
	if id != companyID && idLE != companyID {
		return false
	}
	return buf[l.headerOff+2] == frameType && buf[l.headerOff+3] == frameLen
}

// scan is the permissive fallback: hunt for a 16-byte window starting with
// the signature prefix at any offset.
func (d *Decoder) scan(buf []byte, rssi int16) (Advertisement, error) {
	for i := 0; i+minScanLen <= len(buf); i++ {
		if buf[i] == d.Signature[0] && buf[i+1] == d.Signature[1] {
			return extract(buf, i, rssi), nil
		}
	}
	return Advertisement{}, ErrUnrecognizedFormat
}

func extract(buf []byte, uuidOffset int, rssi int16) Advertisement {
	var id uuid.UUID
	copy(id[:], buf[uuidOffset:uuidOffset+16])
	return Advertisement{
		ProximityUUID: id,
		Major:         binary.BigEndian.Uint16(buf[uuidOffset+16:]),
		Minor:         binary.BigEndian.Uint16(buf[uuidOffset+18:]),
		RSSI:          rssi,
		TxPower:       int8(buf[uuidOffset+20]),
	}
}
