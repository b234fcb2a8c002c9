package ticklog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"epigrid/internal/domain/epidemic"
)

// Entry is one line of a run's tick log.
type Entry struct {
	RunID  string              `json:"run_id"`
	Report epidemic.TickReport `json:"report"`
}

type stream struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Writer appends zstd-compressed JSONL tick entries, one file per run.
type Writer struct {
	baseDir string

	mu      sync.Mutex
	streams map[string]*stream
}

func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, streams: map[string]*stream{}}
}

func (w *Writer) Path(runID string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s.jsonl.zst", runID))
}

// PublishTicks satisfies ports.TickSink. The frame is not logged.
func (w *Writer) PublishTicks(_ context.Context, runID string, reports []epidemic.TickReport, _ epidemic.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, err := w.streamLocked(runID)
	if err != nil {
		return err
	}
	for _, r := range reports {
		b, err := json.Marshal(Entry{RunID: runID, Report: r})
		if err != nil {
			return err
		}
		if _, err := s.w.Write(b); err != nil {
			return err
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

// CloseRun ends the zstd frame of one run so the file can be read.
func (w *Writer) CloseRun(runID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.streams[runID]
	if !ok {
		return nil
	}
	delete(w.streams, runID)
	return s.close()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var first error
	for id, s := range w.streams {
		if err := s.close(); err != nil && first == nil {
			first = err
		}
		delete(w.streams, id)
	}
	return first
}

func (w *Writer) streamLocked(runID string) (*stream, error) {
	if s, ok := w.streams[runID]; ok {
		return s, nil
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(w.Path(runID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s := &stream{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	w.streams[runID] = s
	return s, nil
}

func (s *stream) close() error {
	var err1 error
	if s.w != nil {
		_ = s.w.Flush()
	}
	if s.enc != nil {
		err1 = s.enc.Close()
	}
	if s.f != nil {
		_ = s.f.Close()
	}
	return err1
}

// ReadFile decodes every entry of a closed tick log.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var out []Entry
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return out, fmt.Errorf("decode tick entry %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
