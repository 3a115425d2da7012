// Package finder implements concurrent filename search over a
// directory tree.
//
// A fixed pool of workers shares a queue of directories to expand.
// Every worker both consumes and produces work: expanding a directory
// queues each subdirectory found inside it. Termination is detected
// without a coordinator through the queue's pending counter — the
// count of directories queued or in flight — whose zero-crossing
// wakes every idle worker so each one can observe that the tree is
// exhausted and exit.
package finder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// direntScratchSize is the reusable buffer each worker hands to
// godirwalk for reading directory entries.
const direntScratchSize = 64 * 1024

// Options configures a Finder.
type Options struct {
	// Pattern is the glob to match file names against ('*' and '?').
	Pattern string

	// Workers is the pool size. Values below 1 default to the number
	// of CPUs.
	Workers int

	// Logger receives diagnostic events. Defaults to a no-op logger.
	Logger *zap.Logger

	// Sink receives matches and warnings. Defaults to a plain
	// stdout/stderr sink.
	Sink *Sink
}

// Finder searches a directory tree for names matching a glob pattern.
type Finder struct {
	pattern string
	workers int
	logger  *zap.Logger
	sink    *Sink
	queue   *dirQueue
}

// New builds a Finder from opts.
func New(opts Options) (*Finder, error) {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
		if opts.Workers < 1 {
			opts.Workers = 1
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sink == nil {
		sink, err := NewSink(SinkOptions{})
		if err != nil {
			return nil, err
		}
		opts.Sink = sink
	}
	return &Finder{
		pattern: opts.Pattern,
		workers: opts.Workers,
		logger:  opts.Logger,
		sink:    opts.Sink,
	}, nil
}

// Workers returns the configured pool size.
func (f *Finder) Workers() int {
	return f.workers
}

// Run walks the tree rooted at root and reports every matching name to
// the sink. It returns once every worker has exited; at that point the
// pending counter has reached zero (normal drain) or ctx was canceled.
//
// The root must exist. A root that is not a directory degenerates to a
// single match test against its base name.
func (f *Finder) Run(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("start path %s: %w", root, err)
	}
	root = filepath.Clean(root)
	if !info.IsDir() {
		if matchName(info.Name(), f.pattern) {
			f.sink.Match(root)
		}
		return nil
	}

	f.queue = newDirQueue()
	f.queue.Add(root)

	f.logger.Debug("starting walk",
		zap.String("root", root),
		zap.String("pattern", f.pattern),
		zap.Int("workers", f.workers),
	)

	// Propagate cancellation into the queue so blocked workers wake
	// up without waiting for a drain.
	walkDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			f.queue.Stop()
		case <-walkDone:
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			f.worker(id)
		}(i)
	}
	wg.Wait()
	close(walkDone)

	f.logger.Debug("walk finished", zap.Int("matches", f.sink.Matches()))
	return ctx.Err()
}

// worker drains the queue until it signals global completion or stop.
// Each taken directory is retired exactly once, whether or not its
// expansion succeeded.
func (f *Finder) worker(id int) {
	f.sink.WorkerStarted(id)
	f.logger.Debug("worker started", zap.Int("worker", id))

	scratch := make([]byte, direntScratchSize)
	for {
		dir, ok := f.queue.Take()
		if !ok {
			break
		}
		f.expand(dir, scratch)
		f.queue.CompleteOne()
	}

	f.sink.WorkerFinished(id)
	f.logger.Debug("worker finished", zap.Int("worker", id))
}

// expand enumerates one directory, queueing subdirectories and
// matching file names. Failures are reported and swallowed: a bad
// directory or entry must never abort the pool, and the caller retires
// the task regardless.
func (f *Finder) expand(dir string, scratch []byte) {
	defer func() {
		if r := recover(); r != nil {
			f.sink.Warnf("unexpected failure expanding %s: %v", dir, r)
			f.logger.Error("unexpected expansion failure",
				zap.String("path", dir), zap.Any("panic", r))
		}
	}()

	dirents, err := godirwalk.ReadDirents(dir, scratch)
	if err != nil {
		f.sink.Warnf("cannot read directory %s: %v", dir, err)
		f.logger.Warn("cannot read directory", zap.String("path", dir), zap.Error(err))
		return
	}

	for _, de := range dirents {
		child := filepath.Join(dir, de.Name())
		switch {
		case de.IsDir():
			f.queue.Add(child)
		case de.IsRegular() || de.IsSymlink():
			// Symlinks are leaves: matched by name, never followed.
			f.tryMatch(child, de.Name())
		default:
			// The directory read did not report a usable type for
			// this entry; classify it with lstat.
			fi, err := os.Lstat(child)
			if err != nil {
				f.sink.Warnf("cannot classify %s: %v", child, err)
				f.logger.Warn("cannot classify entry", zap.String("path", child), zap.Error(err))
				continue
			}
			if fi.IsDir() {
				f.queue.Add(child)
			} else if fi.Mode().IsRegular() || fi.Mode()&os.ModeSymlink != 0 {
				f.tryMatch(child, fi.Name())
			}
		}
	}
}

func (f *Finder) tryMatch(path, name string) {
	if matchName(name, f.pattern) {
		f.sink.Match(path)
	}
}
