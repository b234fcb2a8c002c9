package ports

import "context"

// ScenarioPresets serves named scenario documents.
type ScenarioPresets interface {
	Names(ctx context.Context) ([]string, error)
	Document(ctx context.Context, name string) ([]byte, error)
}
