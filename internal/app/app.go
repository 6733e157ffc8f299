package app

import (
	"time"

	"ble-locator.klederson.com/internal/bluetooth"
	"ble-locator.klederson.com/internal/config"
	"ble-locator.klederson.com/internal/floorplan"
	"ble-locator.klederson.com/internal/locate"
	"ble-locator.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const sparklineSamples = 30

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	engine      *locate.Engine
	history     *SignalHistory
	scanner     *bluetooth.Scanner
	mockScanner *bluetooth.MockScanner
}

// Model is the root Bubble Tea model.
type Model struct {
	width  int
	height int

	scanning bool
	demoMode bool
	adapter  string

	shared *shared

	// Cached snapshot, refreshed on each frame
	snap locate.Snapshot
}

// New creates the root model around a built engine.
func New(engine *locate.Engine, demoMode bool, adapter string) Model {
	return Model{
		scanning: true,
		demoMode: demoMode,
		adapter:  adapter,
		shared: &shared{
			engine:  engine,
			history: NewSignalHistory(sparklineSamples),
		},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(),
		solveCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FrameMsg:
		m.snap = m.shared.engine.Snapshot()
		return m, frameCmd()

	case SolveMsg:
		m.shared.engine.SolveTick(time.Time(msg))
		return m, solveCmd()

	case bluetooth.AdvertisementMsg:
		if m.scanning {
			if r, ok := m.shared.engine.HandleAdvertisement(msg.Payload, msg.RSSI, msg.TxHint, msg.HaveHint); ok {
				m.shared.history.Push(r.BeaconID, r.Smoothed)
			}
		}
		return m, nil

	case bluetooth.ScanErrorMsg:
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.stopScanners()
		return m, tea.Quit

	case "s", "S":
		m.scanning = true

	case "p", "P":
		m.scanning = false

	case "r", "R":
		m.shared.engine.Reset()
		m.shared.history.Reset()
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing BLE Locator..."
	}

	cfg := m.shared.engine.Config()

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	planW := m.width * 2 / 3
	if planW < 30 {
		planW = 30
	}
	listW := m.width - planW
	if listW < 20 {
		listW = 20
		planW = m.width - listW
	}

	menuBar := ui.RenderMenuBar(m.width, m.adapter, m.scanning)

	innerW := planW - 4
	innerH := bodyH - 4
	if innerW < 5 {
		innerW = 5
	}
	if innerH < 3 {
		innerH = 3
	}
	stale := m.staleBeacons(cfg)
	planContent := floorplan.Render(innerW, innerH, cfg, m.snap, stale)
	legend := floorplan.RenderLegend(innerW, cfg)
	roomPanel := ui.RenderRoomPanel(planW, bodyH, planContent, legend)

	beaconList := ui.RenderBeaconList(cfg, m.snap, m.shared.history.Values, listW, bodyH, time.Now())

	statusBar := ui.RenderStatusBar(m.width, m.snap)

	return ui.ComposeLayout(menuBar, roomPanel, beaconList, statusBar, m.width)
}

// staleBeacons flags configured beacons without a fresh reading so the
// floor plan can warn about them.
func (m Model) staleBeacons(cfg config.Config) map[int]bool {
	now := time.Now()
	fresh := make(map[int]bool, len(m.snap.Readings))
	for _, r := range m.snap.Readings {
		if now.Sub(r.LastUpdate) <= cfg.StalenessLimit.Std() {
			fresh[r.BeaconID] = true
		}
	}
	stale := make(map[int]bool, len(cfg.Beacons))
	for _, b := range cfg.Beacons {
		if !fresh[b.ID] {
			stale[b.ID] = true
		}
	}
	return stale
}

// StartScanners initializes and starts scanners. Must be called before p.Run().
func (m *Model) StartScanners(p *tea.Program) error {
	if m.demoMode {
		m.shared.mockScanner = bluetooth.NewMockScanner(m.shared.engine.Config())
		return m.shared.mockScanner.Start(p)
	}

	m.shared.scanner = bluetooth.NewScanner()
	return m.shared.scanner.Start(p)
}

func (m *Model) stopScanners() {
	if m.shared.mockScanner != nil {
		m.shared.mockScanner.Stop()
	}
	if m.shared.scanner != nil {
		m.shared.scanner.Stop()
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func solveCmd() tea.Cmd {
	return tea.Tick(config.SolveInterval, func(t time.Time) tea.Msg {
		return SolveMsg(t)
	})
}
