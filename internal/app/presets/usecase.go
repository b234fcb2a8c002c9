package presets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"epigrid/internal/app/ports"
	"epigrid/internal/config"
)

var ErrInvalidRequest = errors.New("invalid preset request")

type UseCase struct {
	Provider ports.ScenarioPresets
}

type Preset struct {
	Name     string          `json:"name"`
	Scenario config.Scenario `json:"scenario"`
}

func (u UseCase) List(ctx context.Context) ([]string, error) {
	return u.Provider.Names(ctx)
}

// Get loads a preset. overrides, when non-empty, is decoded over it.
func (u UseCase) Get(ctx context.Context, name string, overrides []byte) (Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Preset{}, ErrInvalidRequest
	}
	raw, err := u.Provider.Document(ctx, name)
	if err != nil {
		return Preset{}, err
	}
	s, err := config.Parse(raw)
	if err != nil {
		return Preset{}, fmt.Errorf("preset %s: %w", name, err)
	}
	if len(overrides) > 0 {
		if s, err = config.ParseOver(s, overrides); err != nil {
			return Preset{}, err
		}
	}
	return Preset{Name: name, Scenario: s}, nil
}
