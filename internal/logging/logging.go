// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// Options configures New.
type Options struct {
	Level string
	// Path sends output to a size-capped file instead of the console.
	Path string
	// Stdio keeps stdout free for protocol traffic by logging to stderr.
	Stdio bool
}

// New returns a text logger and a close function for any opened file.
// A log file that cannot be opened falls back to the console writer.
func New(opts Options) (*slog.Logger, func() error) {
	var out io.Writer = os.Stdout
	if opts.Stdio {
		out = os.Stderr
	}
	closeFn := func() error { return nil }

	if opts.Path != "" {
		fileWriter, err := NewFileWriter(opts.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			out = fileWriter
			closeFn = fileWriter.Close
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}))
	return logger, closeFn
}

// ParseLevel maps a level name to a slog.Level. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FileWriter appends to a file and trims it to its newest bytes once it grows
// past the size cap.
type FileWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileWriter opens path for appending, creating parent directories.
func NewFileWriter(path string) (*FileWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w := &FileWriter{file: file}
	if err := w.truncateIfNeeded(maxLogSizeBytes, keepLogSizeBytes); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(maxLogSizeBytes, keepLogSizeBytes); err != nil {
		return n, err
	}
	return n, nil
}

// Close closes the underlying file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *FileWriter) truncateIfNeeded(maxSize, keep int64) error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxSize {
		return nil
	}

	buf := make([]byte, keep)
	n, err := w.file.ReadAt(buf, size-keep)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end of file.
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	return nil
}
