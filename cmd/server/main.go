package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	httpadapter "epigrid/internal/adapter/http"
	"epigrid/internal/adapter/metrics"
	metricsinmem "epigrid/internal/adapter/metrics/inmemory"
	"epigrid/internal/adapter/metrics/prom"
	"epigrid/internal/adapter/observer"
	staticpresets "epigrid/internal/adapter/presets/static"
	gormrepo "epigrid/internal/adapter/repo/gorm"
	"epigrid/internal/adapter/repo/memory"
	"epigrid/internal/adapter/ticklog"
	"epigrid/internal/app/frame"
	"epigrid/internal/app/ports"
	"epigrid/internal/app/presets"
	"epigrid/internal/app/replay"
	"epigrid/internal/app/runs"
	"epigrid/internal/app/start"
	"epigrid/internal/app/status"
	"epigrid/internal/app/step"
	"epigrid/internal/app/stop"
	"epigrid/internal/domain/epidemic"
	"epigrid/migrations"

	"github.com/cloudwego/hertz/pkg/app/server"
)

type repos struct {
	runs      ports.RunRepository
	tickStats ports.TickStatsRepository
	tx        ports.TxManager
}

func main() {
	logger := log.New(os.Stderr, "epigrid ", log.LstdFlags)
	store := mustBuildRepos()

	registry := runs.NewRegistry()
	registry.Logger = logger
	if boolEnv("EPIGRID_SHARED_DEATHS", true) {
		registry.Deaths = epidemic.NewDeathCounter()
	}

	kpiRecorder := metricsinmem.NewRecorder()
	promMetrics := prom.New()
	tickMetrics := metrics.Fanout{kpiRecorder, promMetrics}

	frameUC := frame.UseCase{Registry: registry}
	hub := observer.NewHub(logger)
	hub.Snapshot = func(ctx context.Context, runID string) (epidemic.Frame, error) {
		resp, err := frameUC.Execute(ctx, frame.Request{RunID: runID})
		return resp.Frame, err
	}
	sinks := []ports.TickSink{hub}
	closers := []ports.RunCloser{hub}
	if dir := strings.TrimSpace(os.Getenv("EPIGRID_TICKLOG_DIR")); dir != "" {
		tl := ticklog.NewWriter(dir)
		defer func() {
			if err := tl.Close(); err != nil {
				log.Printf("close tick log: %v", err)
			}
		}()
		sinks = append(sinks, tl)
		closers = append(closers, tl)
		log.Printf("tick log enabled under %s", dir)
	}

	h := httpadapter.Handler{
		StartUC: start.UseCase{Registry: registry, Runs: store.runs, Metrics: tickMetrics, Now: time.Now},
		StepUC: step.UseCase{
			Registry:  registry,
			Runs:      store.runs,
			TickStats: store.tickStats,
			TxManager: store.tx,
			Metrics:   tickMetrics,
			Sinks:     sinks,
			Now:       time.Now,
		},
		StatusUC:  status.UseCase{Registry: registry, Runs: store.runs},
		ReplayUC:  replay.UseCase{TickStats: store.tickStats},
		FrameUC:   frameUC,
		StopUC:    stop.UseCase{Registry: registry, Closers: closers},
		PresetsUC: presets.UseCase{Provider: staticpresets.Provider{Root: envOr("EPIGRID_SCENARIOS_DIR", "./scenarios")}},
		KPI:       kpiRecorder,
		Metrics:   promMetrics.Handler(),
	}

	observerAddr := envOr("EPIGRID_OBSERVER_ADDR", ":8081")
	mux := http.NewServeMux()
	mux.Handle("/observe/ws", hub.WSHandler())
	go func() {
		log.Printf("observer listening on %s", observerAddr)
		if err := http.ListenAndServe(observerAddr, mux); err != nil {
			log.Printf("observer stopped: %v", err)
		}
	}()

	addr := ":" + strconv.Itoa(intEnv("EPIGRID_HTTP_PORT", 8080))
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("epigrid server listening on %s", addr)
	s.Spin()
}

func mustBuildRepos() repos {
	dsn := strings.TrimSpace(os.Getenv("EPIGRID_DB_DSN"))
	if dsn == "" {
		log.Println("EPIGRID_DB_DSN not set, keeping runs in memory")
		store := memory.NewStore()
		return repos{
			runs:      memory.NewRunRepo(store),
			tickStats: memory.NewTickStatsRepo(store),
			tx:        memory.NewTxManager(store),
		}
	}
	db, err := gormrepo.OpenPostgresWith(dsn, gormrepo.PostgresOptions{
		MaxOpenConns:    intEnv("EPIGRID_DB_MAX_OPEN", 10),
		MaxIdleConns:    intEnv("EPIGRID_DB_MAX_IDLE", 5),
		ConnMaxLifetime: time.Duration(intEnv("EPIGRID_DB_CONN_LIFETIME_SECONDS", 300)) * time.Second,
		Verbose:         boolEnv("EPIGRID_DB_VERBOSE", false),
	})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	switch dir := strings.TrimSpace(os.Getenv("EPIGRID_MIGRATIONS_DIR")); dir {
	case "off":
	case "":
		if _, err := gormrepo.ApplyMigrationsFS(context.Background(), db, migrations.FS); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	default:
		if err := gormrepo.ApplyMigrations(context.Background(), db, dir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}
	return repos{
		runs:      gormrepo.NewRunRepo(db),
		tickStats: gormrepo.NewTickStatsRepo(db),
		tx:        gormrepo.NewTxManager(db),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
