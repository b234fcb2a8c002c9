package frame

import (
	"context"
	"errors"
	"strings"

	"epigrid/internal/app/runs"
	"epigrid/internal/domain/epidemic"
)

var ErrInvalidRequest = errors.New("invalid frame request")

type Request struct {
	RunID string
}

type Response struct {
	RunID string         `json:"run_id"`
	Frame epidemic.Frame `json:"frame"`
}

type UseCase struct {
	Registry *runs.Registry
}

func (u UseCase) Execute(_ context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.RunID) == "" {
		return Response{}, ErrInvalidRequest
	}
	run, err := u.Registry.Get(req.RunID)
	if err != nil {
		return Response{}, err
	}
	resp := Response{RunID: run.ID}
	_ = run.Do(func(e *epidemic.Engine) error {
		resp.Frame = e.Frame()
		return nil
	})
	return resp, nil
}
