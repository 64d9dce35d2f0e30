// Package organizer runs the per-file pipeline over a directory.
//
// A path flows through ignore rules, the history check, the prober, the
// optional extractor, the classifier, the resolver and finally the executor.
// Run and Watch hold an exclusive session lock for the directory; processing
// within a session is serialized.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/tidyspace/internal/classifier"
	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/executor"
	"github.com/harrison/tidyspace/internal/extract"
	"github.com/harrison/tidyspace/internal/filelock"
	"github.com/harrison/tidyspace/internal/fileutil"
	"github.com/harrison/tidyspace/internal/history"
	"github.com/harrison/tidyspace/internal/logger"
	"github.com/harrison/tidyspace/internal/models"
	"github.com/harrison/tidyspace/internal/probe"
	"github.com/harrison/tidyspace/internal/resolver"
)

// Logger defines the interface for logging session progress and results.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogAction(rec models.ActionRecord)
	LogProgress(done, total int)
	LogSummary(result models.RunResult)
}

// Organizer owns one history store and applies a classification policy to files.
type Organizer struct {
	cfg        *config.Config
	history    history.Store
	logger     Logger
	clock      func() time.Time
	ignore     *fileutil.IgnoreRules
	prober     *probe.Prober
	extractor  *extract.Registry
	classifier classifier.Classifier

	mu sync.Mutex
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithLogger sets the event sink.
func WithLogger(l Logger) Option {
	return func(o *Organizer) { o.logger = l }
}

// WithClock sets the source of "now" used for ages and timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Organizer) { o.clock = clock }
}

// WithExtractor replaces the content extraction backends.
// A nil registry disables extraction.
func WithExtractor(r *extract.Registry) Option {
	return func(o *Organizer) { o.extractor = r }
}

// New creates an Organizer for cfg writing records to store.
// cfg must already be validated.
func New(cfg *config.Config, store history.Store, opts ...Option) (*Organizer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if store == nil {
		return nil, errors.New("history store cannot be nil")
	}

	c, err := classifier.New(cfg)
	if err != nil {
		return nil, err
	}

	o := &Organizer{
		cfg:        cfg,
		history:    store,
		logger:     logger.NewNoOpLogger(),
		clock:      time.Now,
		ignore:     fileutil.NewIgnoreRules(cfg.Ignore),
		prober:     probe.New(),
		classifier: c,
	}
	if cfg.Extract.Enabled {
		o.extractor = extract.NewRegistry(cfg.Extract.MaxChars)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// session carries the per-run state shared by every file of a batch.
type session struct {
	root     string
	runID    string
	resolver *resolver.Resolver
	executor *executor.Executor
}

func (o *Organizer) newSession(root string) *session {
	runID := uuid.New().String()
	return &session{
		root:     root,
		runID:    runID,
		resolver: resolver.New(root, o.cfg.Disambiguator()),
		executor: executor.New(
			executor.WithHistory(o.history),
			executor.WithLogger(o.logger),
			executor.WithDryRun(o.cfg.DryRun),
			executor.WithRunID(runID),
			executor.WithClock(o.clock),
		),
	}
}

// ProcessFile runs the pipeline for a single path, using its parent as the root
// for relative destinations. It returns nil when the path is skipped: ignored,
// already handled, vanished or not a regular file. Keep decisions return a
// record that is not written to history.
func (o *Organizer) ProcessFile(path string) *models.ActionRecord {
	abs, err := filepath.Abs(path)
	if err != nil {
		o.logger.LogWarn(fmt.Sprintf("skip %s: %v", path, err))
		return nil
	}
	s := o.newSession(filepath.Dir(abs))
	rec := o.process(s, abs)
	if rec != nil {
		o.logger.LogAction(*rec)
	}
	return rec
}

func (o *Organizer) process(s *session, path string) *models.ActionRecord {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ignore.Match(path) {
		return nil
	}

	handled, err := o.history.Handled(path)
	if err != nil {
		o.logger.LogWarn(fmt.Sprintf("history lookup for %s: %v", path, err))
	}
	if handled {
		o.logger.LogDebug(fmt.Sprintf("already handled %s", path))
		return nil
	}

	now := o.clock()
	d, err := o.prober.Probe(path, now)
	if err != nil {
		if probe.IsSkippable(err) {
			o.logger.LogDebug(fmt.Sprintf("skip %s: %v", path, err))
		} else {
			o.logger.LogWarn(fmt.Sprintf("skip %s: %v", path, err))
		}
		return nil
	}
	o.logger.LogTrace(fmt.Sprintf("probe %s: mime=%s ext=%q size=%d", path, d.MIMEType, d.Extension, d.Size))

	if o.extractor != nil {
		text, err := o.extractor.Extract(d)
		switch {
		case err == nil:
			d = d.WithText(text)
			o.logger.LogTrace(fmt.Sprintf("extract %s: %d chars", path, len(text)))
		case !errors.Is(err, extract.ErrUnsupported):
			o.logger.LogDebug(fmt.Sprintf("extract %s: %v", path, err))
		}
	}

	decision := o.classifier.Classify(d, now)

	if decision.IsNoop() {
		rec := s.executor.Record(path, decision)
		return &rec
	}

	var dest string
	if decision.Disposition == models.DispositionMove {
		dir, err := s.resolver.ExpandToken(decision.Destination, now)
		if err == nil && dir == filepath.Dir(path) {
			rec := s.executor.Record(path, models.Keep(decision.Category, "already in "+dir))
			return &rec
		}
		dest, err = s.resolver.Resolve(decision.Destination, d.Name(), now)
		if err != nil {
			rec := s.executor.Reject(path, decision, err)
			return &rec
		}
	}

	rec := s.executor.Execute(path, decision, dest)
	return &rec
}

// lock takes the exclusive session lock for root.
func (o *Organizer) lock(root string) (*filelock.FileLock, error) {
	lockDir, err := o.cfg.GetLockDir()
	if err != nil {
		return nil, err
	}
	return filelock.AcquireSession(lockDir, root)
}

// Run processes every top-level file of dir once.
// ctx is checked between files; a cancelled run returns the partial result
// together with ctx.Err().
func (o *Organizer) Run(ctx context.Context, dir string) (models.RunResult, error) {
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

	scan, err := fileutil.ScanDirectory(root, fileutil.ScanOptions{Ignore: o.ignore, MaxDepth: 1})
	if err != nil {
		return result, err
	}
	result.Skipped = scan.Ignored
	for _, scanErr := range scan.Errors {
		o.logger.LogWarn(scanErr.Error())
	}

	s := o.newSession(root)
	o.logger.LogInfo(fmt.Sprintf("%s %s (%d files, run %s)", result.Mode, root, len(scan.Files), s.runID))

	for i, path := range scan.Files {
		if err = ctx.Err(); err != nil {
			break
		}
		rec := o.process(s, path)
		if rec == nil {
			result.Skipped++
		} else {
			result.Add(*rec)
			o.logger.LogAction(*rec)
		}
		o.logger.LogProgress(i+1, len(scan.Files))
	}

	result.Duration = time.Since(start)
	o.logger.LogSummary(result)
	return result, err
}

// RunAll runs each directory in turn and merges the results.
// Directories that do not exist are skipped with a warning.
func (o *Organizer) RunAll(ctx context.Context, dirs []string) (models.RunResult, error) {
	total := models.RunResult{Mode: o.classifier.Name(), DryRun: o.cfg.DryRun}
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			o.logger.LogWarn(fmt.Sprintf("skip %s: not a directory", dir))
			continue
		}
		res, err := o.Run(ctx, dir)
		total.Merge(res)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
