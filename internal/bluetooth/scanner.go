package bluetooth

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"tinygo.org/x/bluetooth"
)

// AdvertisementMsg carries one observed packet from a scanner goroutine to
// the app: the manufacturer-specific data bytes, the RSSI, and a tx-power
// hint when the platform exposes one.
type AdvertisementMsg struct {
	Payload  []byte
	RSSI     int16
	TxHint   int8
	HaveHint bool
}

// ScanErrorMsg reports scanner errors.
type ScanErrorMsg struct {
	Err error
}

// Scanner delivers BLE advertisements as tea messages. Decoding and
// identity filtering happen downstream in the engine; the scanner forwards
// every packet that carries manufacturer data.
type Scanner struct {
	adapter *bluetooth.Adapter
	program *tea.Program
	running bool
}

// NewScanner creates a scanner on the default adapter.
func NewScanner() *Scanner {
	return &Scanner{
		adapter: bluetooth.DefaultAdapter,
	}
}

// Start begins scanning in a goroutine. Observed advertisements are sent
// as tea messages via program.Send().
func (s *Scanner) Start(p *tea.Program) error {
	s.program = p

	if err := s.adapter.Enable(); err != nil {
		return fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	s.running = true
	go func() {
		_ = s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !s.running {
				return
			}

			for _, mfr := range result.ManufacturerData() {
				// The stack strips the company identifier from the data;
				// put it back (little-endian, as transmitted) so the
				// decoder sees the full advertising field.
				payload := make([]byte, 0, len(mfr.Data)+2)
				payload = append(payload, byte(mfr.CompanyID&0xFF), byte(mfr.CompanyID>>8))
				payload = append(payload, mfr.Data...)

				if s.program != nil {
					s.program.Send(AdvertisementMsg{
						Payload: payload,
						RSSI:    result.RSSI,
					})
				}
			}
		})
	}()

	return nil
}

// Stop halts the scanner.
func (s *Scanner) Stop() {
	s.running = false
	_ = s.adapter.StopScan()
}
