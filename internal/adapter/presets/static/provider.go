package staticpresets

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"epigrid/internal/app/ports"
)

var ErrInvalidPresetName = errors.New("invalid preset name")

var presetExts = []string{".yaml", ".yml", ".json"}

// Provider reads scenario presets from files under Root. A preset's name is
// its file name without extension.
type Provider struct {
	Root string
}

func (p Provider) Names(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !isPresetExt(ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

func (p Provider) Document(_ context.Context, name string) ([]byte, error) {
	if strings.ContainsAny(name, `/\`) {
		return nil, ErrInvalidPresetName
	}
	for _, ext := range presetExts {
		path, err := secureJoin(p.Root, name+ext)
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(path)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, ports.ErrNotFound
}

func isPresetExt(ext string) bool {
	for _, e := range presetExts {
		if ext == e {
			return true
		}
	}
	return false
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || strings.HasPrefix(rel, ".") {
		return "", ErrInvalidPresetName
	}
	if filepath.IsAbs(rel) {
		return "", ErrInvalidPresetName
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidPresetName
	}
	return target, nil
}
