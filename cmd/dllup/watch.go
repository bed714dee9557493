package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-dllup/internal/fileutil"
	"github.com/alnah/go-dllup/internal/hints"
)

// debounceDelay groups the events of one editor save into one render.
const debounceDelay = 100 * time.Millisecond

// sourceWatcher re-renders documents as they change.
type sourceWatcher struct {
	r       *siteRenderer
	root    string
	ext     string
	workers int
	quiet   bool
	verbose bool
	env     *Environment
}

// runWatch renders a directory, then watches it until the context ends.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags("watch", args)
	if errors.Is(err, flag.ErrHelp) {
		printWatchUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	r, inputPath, err := setupRender(flags, positional, env)
	if err != nil {
		return err
	}
	defer r.Close()

	if !fileutil.DirExists(inputPath) {
		return fmt.Errorf("%w: watch needs a directory, got %q", ErrUsage, inputPath)
	}

	w := &sourceWatcher{
		r:       r,
		root:    inputPath,
		ext:     r.outputExt(),
		workers: resolvePoolSize(flags.workers, envWorkerCount(env.Getenv)),
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		env:     env,
	}
	return w.run(ctx)
}

func (w *sourceWatcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fsw.Close()

	if err := addTree(fsw, w.root); err != nil {
		return err
	}

	files, err := discoverFiles(w.root, w.r.cfg.Output.DefaultDir, w.ext)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	printResults(renderBatch(ctx, w.r, w.workers, files), w.quiet, w.verbose, w.env)
	if !w.quiet {
		fmt.Fprintf(w.env.Stdout, "Watching %s (Ctrl+C to stop)\n", w.root)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(debounceDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && fileutil.DirExists(ev.Name) {
				if isHidden(filepath.Base(ev.Name)) {
					continue
				}
				if err := addTree(fsw, ev.Name); err != nil {
					w.r.log.Warn("watch: %v", err)
				} else {
					w.r.log.Info("watching new directory %s", ev.Name)
				}
				w.queueTree(ev.Name, pending)
				timer.Reset(debounceDelay)
				continue
			}
			if path, ok := changedSource(ev); ok {
				pending[path] = struct{}{}
				timer.Reset(debounceDelay)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.r.log.Warn("watch: %v", err)

		case <-timer.C:
			w.flush(ctx, pending)
			clear(pending)
		}
	}
}

// flush renders the pending sources that still exist.
func (w *sourceWatcher) flush(ctx context.Context, pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		if fileutil.FileExists(p) {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)

	files := make([]FileToRender, 0, len(paths))
	for _, p := range paths {
		f, err := newFileToRender(p, w.r.cfg.Output.DefaultDir, w.root, w.ext)
		if err != nil {
			w.r.log.Warn("watch: %s: %v", p, err)
			continue
		}
		files = append(files, f)
	}
	printResults(renderBatch(ctx, w.r, w.workers, files), w.quiet, w.verbose, w.env)
}

// queueTree marks every source under dir, for directories created or moved
// into the watched tree.
func (w *sourceWatcher) queueTree(dir string, pending map[string]struct{}) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			pending[path] = struct{}{}
		}
		return nil
	})
}

// changedSource reports the source path an event asks to re-render. Only
// creations and writes of visible .dllu files count.
func changedSource(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	if filepath.Ext(ev.Name) != SourceExt || isHidden(filepath.Base(ev.Name)) {
		return "", false
	}
	return ev.Name, true
}

// addTree watches dir and its visible subdirectories. fsnotify watches are
// not recursive.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w%s", path, err, hints.ForWatchLimit(err))
		}
		return nil
	})
}
