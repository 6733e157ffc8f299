package beacon

import (
	"fmt"

	"github.com/google/uuid"
)

// Advertisement is one decoded beacon broadcast. Produced fresh per packet,
// never persisted.
type Advertisement struct {
	ProximityUUID uuid.UUID // serialized as lowercase 8-4-4-4-12 by String()
	Major         uint16
	Minor         uint16
	RSSI          int16 // observed signal strength (dBm)
	TxPower       int8  // advertised power at 1 meter (dBm)
}

func (a Advertisement) String() string {
	return fmt.Sprintf("%s %d/%d rssi=%d tx=%d", a.ProximityUUID, a.Major, a.Minor, a.RSSI, a.TxPower)
}

// Matches reports whether the advertisement carries the given identity.
// The target may use any hyphenation or case accepted by uuid.Parse.
func (a Advertisement) Matches(target string) bool {
	t, err := uuid.Parse(target)
	if err != nil {
		return false
	}
	return a.ProximityUUID == t
}
