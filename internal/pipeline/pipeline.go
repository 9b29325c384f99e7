package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"glyphpress/internal/config"
	"glyphpress/internal/logging"
	"glyphpress/internal/notifications"
	"glyphpress/internal/services"
)

// State identifies the lifecycle phase of a pipeline run.
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateBuilding   State = "building"
	StateDetecting  State = "detecting"
	StatePublishing State = "publishing"
)

// Fetcher mirrors upstream sources into the working repository.
type Fetcher interface {
	Fetch(ctx context.Context) error
}

// Builder regenerates font artifacts from the mirrored sources.
type Builder interface {
	Build(ctx context.Context) error
}

// Detector reports whether the working tree changed since the last commit.
type Detector interface {
	Updated(ctx context.Context) (bool, error)
}

// TagPublisher commits the working tree and publishes the date-stamped tag.
type TagPublisher interface {
	Publish(ctx context.Context, now time.Time) (string, error)
}

// ChangelogRenderer produces the release notes for a tag.
type ChangelogRenderer interface {
	Render(ctx context.Context, tag string) (string, error)
}

// ReleasePublisher creates the hosted release with its artifacts.
type ReleasePublisher interface {
	Publish(ctx context.Context, tag, body string) error
}

// Outcome summarizes a completed run.
type Outcome struct {
	RunID    string
	Updated  bool
	Tag      string
	Duration time.Duration
}

// Pipeline sequences fetch, build, change detection, and publishing. A file
// lock enforces single-instance execution so overlapping scheduled runs
// cannot interleave their commits.
type Pipeline struct {
	fetcher   Fetcher
	builder   Builder
	detector  Detector
	tagger    TagPublisher
	changelog ChangelogRenderer
	releaser  ReleasePublisher
	notifier  notifications.Service
	lock      *flock.Flock
	logger    *slog.Logger
	now       func() time.Time
	assets    int

	state State
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New assembles a pipeline from its collaborators.
func New(cfg *config.Config, fetcher Fetcher, builder Builder, detector Detector, tagger TagPublisher, changelog ChangelogRenderer, releaser ReleasePublisher, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:   fetcher,
		builder:   builder,
		detector:  detector,
		tagger:    tagger,
		changelog: changelog,
		releaser:  releaser,
		notifier:  notifier,
		lock:      flock.New(cfg.Paths.LockFile),
		assets:    len(cfg.Release.Artifacts),
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		now:       time.Now,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State reports the current lifecycle phase.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes one complete pass: fetch, build, detect, and, when the
// working tree changed, tag and release. Returns the outcome of the run.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	held, err := p.lock.TryLock()
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrTransient, "pipeline", "lock", p.lock.Path(), err)
	}
	if !held {
		return Outcome{}, services.Wrap(services.ErrTransient, "pipeline", "lock",
			"another run is already in progress", nil)
	}
	defer func() {
		_ = p.lock.Unlock()
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	started := p.now()

	outcome := Outcome{RunID: runID}
	err = p.execute(ctx, &outcome)
	outcome.Duration = p.now().Sub(started)
	p.state = StateIdle

	if err != nil {
		return outcome, err
	}
	p.logger.Info("run completed",
		logging.String(logging.FieldRunID, runID),
		logging.Bool("updated", outcome.Updated),
		logging.String("tag", outcome.Tag),
		logging.Duration("duration", outcome.Duration))
	return outcome, nil
}

func (p *Pipeline) execute(ctx context.Context, outcome *Outcome) error {
	if err := p.stage(ctx, StateFetching, func(ctx context.Context) error {
		return p.fetcher.Fetch(ctx)
	}); err != nil {
		return err
	}

	if err := p.stage(ctx, StateBuilding, func(ctx context.Context) error {
		return p.builder.Build(ctx)
	}); err != nil {
		return err
	}

	var updated bool
	if err := p.stage(ctx, StateDetecting, func(ctx context.Context) (err error) {
		updated, err = p.detector.Updated(ctx)
		return err
	}); err != nil {
		return err
	}
	outcome.Updated = updated

	if !updated {
		p.logger.Info("no changes detected; skipping publish")
		p.notify(ctx, func(ctx context.Context) error {
			return p.notifier.NotifyNoChanges(ctx)
		})
		return nil
	}

	return p.stage(ctx, StatePublishing, func(ctx context.Context) error {
		tag, err := p.tagger.Publish(ctx, p.now())
		if err != nil {
			return err
		}
		outcome.Tag = tag

		body, err := p.changelog.Render(ctx, tag)
		if err != nil {
			return err
		}
		if err := p.releaser.Publish(ctx, tag, body); err != nil {
			return err
		}
		p.notify(ctx, func(ctx context.Context) error {
			return p.notifier.NotifyReleasePublished(ctx, tag, p.assets)
		})
		return nil
	})
}

// stage runs fn with stage-scoped context and lifecycle logging. Failures
// are reported to the notifier before being returned.
func (p *Pipeline) stage(ctx context.Context, state State, fn func(context.Context) error) error {
	p.state = state
	name := string(state)
	stageCtx := logging.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, p.logger)

	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"))
	started := p.now()

	if err := fn(stageCtx); err != nil {
		stageLogger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.Error(err))
		p.notify(stageCtx, func(ctx context.Context) error {
			return p.notifier.NotifyRunFailed(ctx, err, name)
		})
		return err
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("duration", p.now().Sub(started)))
	return nil
}

// notify delivers a notification without letting delivery problems affect
// the run outcome.
func (p *Pipeline) notify(ctx context.Context, fn func(context.Context) error) {
	if p.notifier == nil {
		return
	}
	if err := fn(ctx); err != nil {
		p.logger.Debug("notification delivery failed", logging.Error(err))
	}
}
