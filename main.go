package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"ble-locator.klederson.com/internal/app"
	"ble-locator.klederson.com/internal/config"
	"ble-locator.klederson.com/internal/locate"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagDemo       bool
	flagAdapter    string
	flagConfig     string
	flagDebug      bool
	flagPermissive bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ble-locator",
		Short: "BLE Locator - indoor position tracking from beacon advertisements",
		Long: `BLE Locator listens for advertisements from stationary beacons at known
room coordinates, estimates the distance to each from signal strength, and
trilaterates the observer's position onto an ASCII floor plan.

Requires sudo or CAP_NET_ADMIN capability for real Bluetooth scanning.
Use --demo flag for demonstration mode without Bluetooth hardware.`,
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run in demo mode with a simulated walker (no Bluetooth required)")
	rootCmd.Flags().StringVar(&flagAdapter, "adapter", "hci0", "Bluetooth adapter to use")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file (beacons, room, filter tuning)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Log diagnostics to ble-locator.log")
	rootCmd.Flags().BoolVar(&flagPermissive, "permissive", false, "Enable the byte-pattern decode fallback for odd hardware")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal, so diagnostics go to a file or nowhere.
	if flagDebug {
		f, err := tea.LogToFile("ble-locator.log", "ble-locator")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagPermissive {
		cfg.PermissiveScan = true
	}

	engine, err := locate.NewEngine(cfg)
	if err != nil {
		return err
	}

	model := app.New(engine, flagDemo, flagAdapter)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start scanners with reference to the tea program
	if err := model.StartScanners(p); err != nil {
		if !flagDemo {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(os.Stderr, "Bluetooth scanning requires elevated permissions.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./ble-locator")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./ble-locator")
			fmt.Fprintln(os.Stderr, "  ./ble-locator --demo    (demo mode, no hardware needed)")
			return err
		}
	}

	_, err = p.Run()
	return err
}
