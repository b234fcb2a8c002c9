//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRunAPI_Lifecycle(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	client := &http.Client{Timeout: 20 * time.Second}

	t.Run("invalid scenario is rejected", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/runs", map[string]any{"prob_inf": 3})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", status, string(body))
		}
	})

	t.Run("unknown run is 404", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/runs/does-not-exist/step", map[string]any{"ticks": 1})
		if status != http.StatusNotFound {
			t.Fatalf("expected 404, got %d body=%s", status, string(body))
		}
	})

	t.Run("start step status history frame ops", func(t *testing.T) {
		status, startBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/runs", map[string]any{
			"grid_width":         20,
			"grid_height":        20,
			"susceptible_agents": 120,
			"infected_agents":    5,
			"strategies":         []string{"mask", "curfew"},
			"seed":               time.Now().UnixNano(),
		})
		if status != http.StatusCreated {
			t.Fatalf("start status=%d body=%s", status, string(startBody))
		}
		var started map[string]any
		if err := json.Unmarshal(startBody, &started); err != nil {
			t.Fatalf("unmarshal start: %v body=%s", err, string(startBody))
		}
		runID, _ := started["run_id"].(string)
		if runID == "" {
			t.Fatalf("expected run_id, got %v", started)
		}
		runURL := baseURL + "/api/runs/" + runID

		status, stepBody := mustJSON(t, client, http.MethodPost, runURL+"/step", map[string]any{"ticks": 24})
		if status != http.StatusOK {
			t.Fatalf("step status=%d body=%s", status, string(stepBody))
		}
		var stepped map[string]any
		if err := json.Unmarshal(stepBody, &stepped); err != nil {
			t.Fatalf("unmarshal step: %v body=%s", err, string(stepBody))
		}
		if len(asSlice(stepped["reports"])) != 24 {
			t.Fatalf("expected 24 tick reports, got %v", stepped["reports"])
		}

		status, statusBody := mustJSON(t, client, http.MethodGet, runURL, nil)
		if status != http.StatusOK {
			t.Fatalf("status endpoint status=%d body=%s", status, string(statusBody))
		}
		var st map[string]any
		if err := json.Unmarshal(statusBody, &st); err != nil {
			t.Fatalf("unmarshal status: %v body=%s", err, string(statusBody))
		}
		if tick, _ := st["tick"].(float64); tick != 24 {
			t.Fatalf("expected tick 24, got %v", st["tick"])
		}
		if tod, _ := st["time_of_day"].(string); strings.TrimSpace(tod) == "" {
			t.Fatalf("expected time_of_day in status, got %v", st)
		}

		status, historyBody := mustJSON(t, client, http.MethodGet, runURL+"/history?limit=10", nil)
		if status != http.StatusOK {
			t.Fatalf("history status=%d body=%s", status, string(historyBody))
		}
		var hist map[string]any
		if err := json.Unmarshal(historyBody, &hist); err != nil {
			t.Fatalf("unmarshal history: %v body=%s", err, string(historyBody))
		}
		if len(asSlice(hist["ticks"])) != 10 {
			t.Fatalf("expected 10 history ticks, got %v", hist["ticks"])
		}

		status, frameBody := mustJSON(t, client, http.MethodGet, runURL+"/frame", nil)
		if status != http.StatusOK {
			t.Fatalf("frame status=%d body=%s", status, string(frameBody))
		}
		var fr map[string]any
		if err := json.Unmarshal(frameBody, &fr); err != nil {
			t.Fatalf("unmarshal frame: %v body=%s", err, string(frameBody))
		}
		if len(asSlice(asMap(fr["frame"])["cells"])) == 0 {
			t.Fatalf("expected occupied cells in frame")
		}

		status, kpiBody := mustJSON(t, client, http.MethodGet, baseURL+"/ops/kpi", nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(kpiBody))
		}
		var kpi map[string]any
		if err := json.Unmarshal(kpiBody, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v body=%s", err, string(kpiBody))
		}
		if _, ok := kpi["ticks_total"]; !ok {
			t.Fatalf("expected ticks_total in kpi response")
		}

		status, metricsBody := mustJSON(t, client, http.MethodGet, baseURL+"/metrics", nil)
		if status != http.StatusOK || !bytes.Contains(metricsBody, []byte("epigrid_ticks_total")) {
			t.Fatalf("metrics status=%d missing epigrid_ticks_total", status)
		}

		status, stopBody := mustJSON(t, client, http.MethodDelete, runURL, nil)
		if status != http.StatusOK {
			t.Fatalf("stop status=%d body=%s", status, string(stopBody))
		}
		status, frameBody = mustJSON(t, client, http.MethodGet, runURL+"/frame", nil)
		if status != http.StatusNotFound {
			t.Fatalf("expected 404 frame after stop, got %d body=%s", status, string(frameBody))
		}
		status, historyBody = mustJSON(t, client, http.MethodGet, runURL+"/history?from_tick=1&to_tick=5", nil)
		if status != http.StatusOK {
			t.Fatalf("history after stop status=%d body=%s", status, string(historyBody))
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url string, body map[string]any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, body)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, url, err)
	}
	return status, respBody
}

func doRequest(client *http.Client, method, url string, body map[string]any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
