package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	staticpresets "epigrid/internal/adapter/presets/static"
	"epigrid/internal/app/frame"
	"epigrid/internal/app/ports"
	"epigrid/internal/app/presets"
	"epigrid/internal/app/replay"
	"epigrid/internal/app/start"
	"epigrid/internal/app/status"
	"epigrid/internal/app/step"
	"epigrid/internal/app/stop"
	"epigrid/internal/config"
	"epigrid/internal/domain/epidemic"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	StartUC  start.UseCase
	StepUC   step.UseCase
	StatusUC status.UseCase
	ReplayUC replay.UseCase
	FrameUC  frame.UseCase
	StopUC   stop.UseCase
	// PresetsUC is optional. Without a provider the preset routes answer 404.
	PresetsUC presets.UseCase
	KPI       kpiSnapshotProvider
	// Metrics serves the Prometheus exposition format on /metrics.
	Metrics http.Handler
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	s.GET("/api/scenarios", h.listPresets)
	s.GET("/api/scenarios/:name", h.getPreset)
	s.POST("/api/runs", h.startRun)
	runs := s.Group("/api/runs/:run_id")
	runs.POST("/step", h.step)
	runs.GET("", h.status)
	runs.GET("/history", h.history)
	runs.GET("/frame", h.frame)
	runs.DELETE("", h.stop)

	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

type stepRequest struct {
	Ticks int `json:"ticks"`
}

type historyEntry struct {
	epidemic.TickReport
	RecordedAt time.Time `json:"recorded_at"`
}

type historyResponse struct {
	RunID string         `json:"run_id"`
	Ticks []historyEntry `json:"ticks"`
	Curve replay.Curve   `json:"curve"`
}

func (h Handler) startRun(c context.Context, ctx *app.RequestContext) {
	var (
		scenario config.Scenario
		err      error
	)
	if name := string(ctx.Query("preset")); name != "" {
		if h.PresetsUC.Provider == nil {
			writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "scenario presets not configured")
			return
		}
		var p presets.Preset
		p, err = h.PresetsUC.Get(c, name, ctx.Request.Body())
		scenario = p.Scenario
	} else {
		scenario, err = config.Parse(ctx.Request.Body())
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StartUC.Execute(c, start.Request{Scenario: scenario})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.StepUC.Execute(c, step.Request{RunID: ctx.Param("run_id"), Ticks: body.Ticks})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{RunID: ctx.Param("run_id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	fromTick, _ := strconv.ParseInt(string(ctx.Query("from_tick")), 10, 64)
	toTick, _ := strconv.ParseInt(string(ctx.Query("to_tick")), 10, 64)
	runID := ctx.Param("run_id")
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		RunID:    runID,
		Limit:    limit,
		FromTick: fromTick,
		ToTick:   toTick,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	out := historyResponse{RunID: runID, Ticks: make([]historyEntry, 0, len(resp.Ticks)), Curve: resp.Curve}
	for _, t := range resp.Ticks {
		out.Ticks = append(out.Ticks, historyEntry{TickReport: t.Report, RecordedAt: t.RecordedAt})
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) frame(c context.Context, ctx *app.RequestContext) {
	resp, err := h.FrameUC.Execute(c, frame.Request{RunID: ctx.Param("run_id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// stop unloads a live run. Its persisted history stays on /history.
func (h Handler) stop(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StopUC.Execute(c, stop.Request{RunID: ctx.Param("run_id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listPresets(c context.Context, ctx *app.RequestContext) {
	if h.PresetsUC.Provider == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "scenario presets not configured")
		return
	}
	names, err := h.PresetsUC.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"presets": names})
}

func (h Handler) getPreset(c context.Context, ctx *app.RequestContext) {
	if h.PresetsUC.Provider == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "scenario presets not configured")
		return
	}
	p, err := h.PresetsUC.Get(c, ctx.Param("name"), nil)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, p)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, config.ErrInvalidScenario):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_scenario", err.Error())
	case errors.Is(err, step.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, frame.ErrInvalidRequest),
		errors.Is(err, stop.ErrInvalidRequest),
		errors.Is(err, presets.ErrInvalidRequest),
		errors.Is(err, staticpresets.ErrInvalidPresetName):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict),
		errors.Is(err, epidemic.ErrPhaseOrder):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
