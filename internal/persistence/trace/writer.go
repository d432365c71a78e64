package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// streamWriter appends JSON lines to a zstd-compressed file, starting a
// new file each UTC day. Trace volume is one line per control step, so a
// day of training stays a single file replay can scan in one pass. Every
// line is flushed through to the encoder so a crash loses at most the
// in-flight record.
type streamWriter struct {
	dir    string
	prefix string

	mu     sync.Mutex
	curDay string
	file   *os.File
	enc    *zstd.Encoder
	buf    *bufio.Writer
}

func newStreamWriter(dir, prefix string) *streamWriter {
	return &streamWriter{dir: dir, prefix: prefix}
}

func (w *streamWriter) Write(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	day := time.Now().UTC().Format("2006-01-02")
	if day != w.curDay {
		if err := w.openDay(day); err != nil {
			return err
		}
	}
	if _, err := w.buf.Write(line); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	return w.buf.Flush()
}

func (w *streamWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeCurrent()
}

// openDay seals the previous day's file and appends to the new one.
// Appending (rather than truncating) keeps restarts within a day from
// discarding earlier trace lines.
func (w *streamWriter) openDay(day string) error {
	if err := w.closeCurrent(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, day))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.file = f
	w.enc = enc
	w.buf = bufio.NewWriterSize(enc, 64*1024)
	w.curDay = day
	return nil
}

func (w *streamWriter) closeCurrent() error {
	if w.buf != nil {
		_ = w.buf.Flush()
		w.buf = nil
	}
	var err error
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	w.curDay = ""
	return err
}

// RewardLogger writes the reward trace stream.
type RewardLogger struct{ w *streamWriter }

func NewRewardLogger(dataDir string) *RewardLogger {
	return &RewardLogger{w: newStreamWriter(filepath.Join(dataDir, "traces"), "reward")}
}

func (l *RewardLogger) Write(v any) error { return l.w.Write(v) }
func (l *RewardLogger) Close() error      { return l.w.Close() }

// WalkLogger writes the per-step walk audit stream.
type WalkLogger struct{ w *streamWriter }

func NewWalkLogger(dataDir string) *WalkLogger {
	return &WalkLogger{w: newStreamWriter(filepath.Join(dataDir, "traces"), "walk")}
}

func (l *WalkLogger) Write(v any) error { return l.w.Write(v) }
func (l *WalkLogger) Close() error      { return l.w.Close() }
