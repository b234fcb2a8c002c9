package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"epigrid/internal/adapter/ticklog"
	"epigrid/internal/app/runs"
	"epigrid/internal/config"
	"epigrid/internal/domain/epidemic"
)

func main() {
	var (
		configPath = flag.String("config", "", "scenario YAML or JSON (defaults when empty)")
		ticks      = flag.Int("ticks", 0, "ticks to run (overrides the scenario)")
		seed       = flag.Int64("seed", 0, "rng seed (overrides the scenario)")
		logDir     = flag.String("ticklog", "", "directory for the <run>.jsonl.zst tick log (optional)")
		every      = flag.Int("every", 24, "print a report line every N ticks, 0 to disable")
		replayPath = flag.String("replay", "", "summarize an existing .jsonl.zst tick log and exit")
	)
	flag.Parse()

	if *replayPath != "" {
		if err := summarizeLog(*replayPath); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		return
	}

	scenario := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load scenario:", err)
			os.Exit(2)
		}
		scenario = s
	}
	if *ticks > 0 {
		scenario.Ticks = *ticks
	}
	if *seed != 0 {
		scenario.Seed = *seed
	}

	registry := runs.NewRegistry()
	registry.Logger = log.New(os.Stderr, "epigrid ", log.LstdFlags)
	run, seeded, err := registry.Start(scenario)
	if err != nil {
		fmt.Fprintln(os.Stderr, "start run:", err)
		os.Exit(2)
	}
	fmt.Printf("run %s grid=%dx%d placed=%d skipped=%d ticks=%d\n",
		run.ID, scenario.GridWidth, scenario.GridHeight, seeded.Placed, seeded.Skipped, scenario.Ticks)

	var tl *ticklog.Writer
	if *logDir != "" {
		tl = ticklog.NewWriter(*logDir)
		defer func() {
			if err := tl.Close(); err != nil {
				fmt.Fprintln(os.Stderr, "close tick log:", err)
			}
		}()
	}

	started := time.Now()
	err = run.Do(func(e *epidemic.Engine) error {
		for i := 0; i < scenario.Ticks; i++ {
			r, err := e.Step()
			if err != nil {
				return err
			}
			if tl != nil {
				if err := tl.PublishTicks(context.Background(), run.ID, []epidemic.TickReport{r}, epidemic.Frame{}); err != nil {
					return err
				}
			}
			if *every > 0 && r.Tick%int64(*every) == 0 {
				printReport(r)
			}
			if r.Counts.Infected() == 0 {
				fmt.Printf("epidemic over at tick %d\n", r.Tick)
				break
			}
		}
		s := e.Stats()
		c := e.Counts()
		fmt.Printf("done tick=%d in %s susceptible=%d infected=%d recovered=%d deceased=%d infections=%d deaths=%d r0=%.3f\n",
			e.Tick(), time.Since(started).Round(time.Millisecond),
			c.Susceptible, c.Infected(), c.Recovered, c.Deceased,
			s.Infections(), s.TotalDeaths(), s.ReproductionNumber())
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "step:", err)
		os.Exit(1)
	}
	if tl != nil {
		fmt.Printf("tick log: %s\n", tl.Path(run.ID))
	}
}

func printReport(r epidemic.TickReport) {
	fmt.Printf("tick=%-5d S=%-4d I=%-4d A=%-4d R=%-4d D=%-4d +inf=%-3d +rec=%-3d +dead=%-3d moved=%-4d r0=%.3f\n",
		r.Tick, r.Counts.Susceptible, r.Counts.InfectedWithSymptoms, r.Counts.InfectedWithoutSymptoms,
		r.Counts.Recovered, r.Counts.Deceased, r.NewInfections, r.NewRecoveries, r.NewDeaths, r.Moved,
		r.ReproductionNumber)
}

func summarizeLog(path string) error {
	entries, err := ticklog.ReadFile(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s: no ticks", path)
	}
	var (
		peak     int
		peakTick int64
		infected int
		deaths   int
	)
	for _, e := range entries {
		infected += e.Report.NewInfections
		deaths += e.Report.NewDeaths
		if n := e.Report.Counts.Infected(); n > peak {
			peak, peakTick = n, e.Report.Tick
		}
	}
	last := entries[len(entries)-1]
	fmt.Printf("run %s ticks=%d..%d infections=%d deaths=%d peak_infected=%d@%d\n",
		last.RunID, entries[0].Report.Tick, last.Report.Tick, infected, deaths, peak, peakTick)
	printReport(last.Report)
	return nil
}
