package organizer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/harrison/tidyspace/internal/models"
	"github.com/harrison/tidyspace/internal/watcher"
)

// Watch processes files as they settle in the top level of dir until ctx is done.
// The session lock is held for the whole watch. The returned result covers
// every file processed; cancellation is not reported as an error.
func (o *Organizer) Watch(ctx context.Context, dir string) (models.RunResult, error) {
	start := time.Now()
	root, err := filepath.Abs(dir)
	if err != nil {
		return models.RunResult{}, fmt.Errorf("resolve %s: %w", dir, err)
	}

	result := models.RunResult{
		Root:   root,
		Mode:   o.classifier.Name(),
		DryRun: o.cfg.DryRun,
	}

	lock, err := o.lock(root)
	if err != nil {
		return result, err
	}
	defer lock.Unlock()

	w, err := watcher.New(root, o.cfg.Watch.Debounce, o.ignore.Match)
	if err != nil {
		return result, fmt.Errorf("watch %s: %w", root, err)
	}
	defer w.Close()

	s := o.newSession(root)
	o.logger.LogInfo(fmt.Sprintf("watching %s (run %s)", w.RootDir(), s.runID))

	for {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(start)
			o.logger.LogSummary(result)
			return result, nil
		case err := <-w.Errors():
			o.logger.LogWarn(fmt.Sprintf("watch %s: %v", root, err))
		case ev := <-w.Events():
			o.logger.LogDebug(fmt.Sprintf("%s %s", ev.Op, ev.Path))
			rec := o.process(s, ev.Path)
			if rec == nil {
				result.Skipped++
				continue
			}
			result.Add(*rec)
			o.logger.LogAction(*rec)
		}
	}
}
