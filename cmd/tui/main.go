package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"epigrid/internal/app/runs"
	"epigrid/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "scenario YAML or JSON (defaults when empty)")
		interval   = flag.Duration("interval", 150*time.Millisecond, "delay between ticks")
		seed       = flag.Int64("seed", 0, "rng seed (overrides the scenario)")
	)
	flag.Parse()

	scenario := config.Default()
	scenario.GridWidth, scenario.GridHeight = 40, 20
	scenario.SusceptibleAgents, scenario.InfectedAgents = 200, 5
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load scenario:", err)
			os.Exit(2)
		}
		scenario = s
	}
	if *seed != 0 {
		scenario.Seed = *seed
	}

	registry := runs.NewRegistry()
	// Log output would tear the alt screen.
	registry.Logger = log.New(io.Discard, "", 0)
	run, _, err := registry.Start(scenario)
	if err != nil {
		fmt.Fprintln(os.Stderr, "start run:", err)
		os.Exit(2)
	}

	p := tea.NewProgram(newModel(run, scenario.Ticks, *interval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("tui error: %v\n", err)
		os.Exit(1)
	}
}
