package finder

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const logTimeFormat = "2006-01-02 15:04:05"

// SinkOptions configures a Sink.
type SinkOptions struct {
	Out     io.Writer // match output; defaults to os.Stdout
	ErrOut  io.Writer // warnings; defaults to os.Stderr
	LogPath string    // append-mode session log; empty disables logging
	Color   bool      // colorize matches on Out
}

// Sink serializes match announcements and diagnostics from concurrent
// workers. It guarantees that no two writes interleave; it does not
// impose any ordering across workers, since discovery order is
// inherently concurrent.
type Sink struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	log     *os.File
	match   *color.Color
	matches int
}

// NewSink builds a Sink. When opts.LogPath is set the file is opened
// in append mode up front, so a bad log path fails before any worker
// starts.
func NewSink(opts SinkOptions) (*Sink, error) {
	s := &Sink{
		out:    opts.Out,
		errOut: opts.ErrOut,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.errOut == nil {
		s.errOut = os.Stderr
	}
	if opts.Color {
		s.match = color.New(color.FgGreen)
		s.match.EnableColor()
	}
	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", opts.LogPath, err)
		}
		s.log = f
	}
	return s, nil
}

// ColorEnabled reports whether w is a terminal worth colorizing.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// SessionStart records the walk parameters in the session log.
func (s *Sink) SessionStart(root, pattern string, workers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logf("=== session start %s ===", time.Now().Format(logTimeFormat))
	s.logf("start path: %s", root)
	s.logf("pattern: %s", pattern)
	s.logf("workers: %d", workers)
}

// SessionEnd closes out the session log. When the whole walk produced
// no matches, a notice is also printed to the output stream.
func (s *Sink) SessionEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matches == 0 {
		fmt.Fprintln(s.out, "No matches found.")
		s.logf("no matches found")
	}
	s.logf("=== session end %s ===", time.Now().Format(logTimeFormat))
}

// Match announces one matched path.
func (s *Sink) Match(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches++
	if s.match != nil {
		fmt.Fprintln(s.out, s.match.Sprint(path))
	} else {
		fmt.Fprintln(s.out, path)
	}
	s.logf("[%s] match: %s", time.Now().Format(logTimeFormat), path)
}

// Warnf reports a recoverable problem to the error stream and the log.
func (s *Sink) Warnf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(s.errOut, "[warn] %s\n", msg)
	s.logf("[%s] warn: %s", time.Now().Format(logTimeFormat), msg)
}

// WorkerStarted and WorkerFinished record worker lifecycle events in
// the session log only; they are noise on a terminal.
func (s *Sink) WorkerStarted(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logf("worker %d started", id)
}

func (s *Sink) WorkerFinished(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logf("worker %d finished", id)
}

// Matches returns the number of matches announced so far.
func (s *Sink) Matches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}

// Close releases the session log, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.log == nil {
		return nil
	}
	err := s.log.Close()
	s.log = nil
	return err
}

// logf writes one line to the session log. Callers must hold s.mu.
func (s *Sink) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	fmt.Fprintf(s.log, format+"\n", args...)
}
