package packager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/config"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/domain/firmware"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/logger"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/metrics"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/process"
)

// Stage names used in logs, reports and metrics.
const (
	StagePreflight    = "preflight"
	StageCleanup      = "cleanup"
	StageCompress     = "compress"
	StageArchive      = "archive"
	StageChecksum     = "checksum"
	StageFinalCleanup = "final_cleanup"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional YAML file overriding the packaging constants.
	ConfigPath string
	// WorkDir is the directory to package; empty means the current directory.
	WorkDir string
	// MetricsFile overrides the configured metrics textfile path.
	MetricsFile string
	// Runner executes external tools; nil means real processes.
	Runner process.Runner
	// Recorder receives run measurements; nil means a Prometheus recorder
	// when a metrics file is configured and a no-op otherwise.
	Recorder metrics.Recorder
}

// Report summarizes a finished run.
type Report struct {
	// RunID identifies the run in logs and metrics.
	RunID string
	// Candidates are the discovered images, relative to the working directory.
	Candidates []string
	// Compressed counts successful compressor invocations.
	Compressed int
	// Failed lists candidates the compressor could not process.
	Failed []string
	// Collisions counts artifact names produced by more than one candidate.
	Collisions int
	// Members are the archive members in archive order.
	Members []string
	// Deliverable is the path of the produced bundle.
	Deliverable string
	// DeliverableSize is the size of the bundle in bytes.
	DeliverableSize int64
	// Checksum is the hex digest appended to the bundle.
	Checksum string
	// NothingToDo is set when no candidate was found.
	NothingToDo bool
	// Durations holds the wall time of each completed stage.
	Durations map[string]time.Duration
}

// packager holds the state of a single bundling run.
// It is unexported; callers should use Run.
type packager struct {
	// cfg holds the packaging parameters.
	cfg *config.Config
	// workDir is the directory being packaged.
	workDir string
	// runner executes the external tools.
	runner process.Runner
	// recorder receives measurements.
	recorder metrics.Recorder
	// ledger collects compressed artifact names.
	ledger *firmware.Ledger
	// report is filled while the run progresses.
	report *Report
}

// Run executes the bundling workflow in the working directory.
// A run that finds no firmware image returns a report with NothingToDo set and a nil error.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "firmware-maker")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if opts.MetricsFile != "" {
		cfg.MetricsFile = opts.MetricsFile
	}

	pkg, textfile := newPackager(cfg, opts)
	ctx = logger.WithKV(ctx, "run_id", pkg.report.RunID)

	err = pkg.Run(ctx)

	outcome := metrics.OutcomeSuccess

	switch {
	case err != nil:
		outcome = metrics.OutcomeFailure
	case pkg.report.NothingToDo:
		outcome = metrics.OutcomeNothingToDo
	}

	pkg.recorder.RecordOutcome(outcome, time.Now())

	if textfile != nil {
		if writeErr := textfile.WriteTextfile(cfg.MetricsFile); writeErr != nil {
			logger.WarnKV(ctx, "Could not write metrics file", "path", cfg.MetricsFile, "error", writeErr)
		}
	}

	if err != nil {
		return pkg.report, err
	}

	if pkg.report.NothingToDo {
		logger.Info(ctx, "No firmware images found, nothing to do")
		return pkg.report, nil
	}

	logger.InfoKV(ctx, "Firmware bundle created",
		"deliverable", pkg.report.Deliverable,
		"members", len(pkg.report.Members),
		"size", pkg.report.DeliverableSize,
		"md5", pkg.report.Checksum)

	return pkg.report, nil
}

// newPackager wires a packager for cfg. The returned PrometheusRecorder is non-nil
// only when a metrics file has to be written at the end of the run.
func newPackager(cfg *config.Config, opts *Options) (*packager, *metrics.PrometheusRecorder) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	runner := opts.Runner
	if runner == nil {
		runner = process.NewExecRunner()
	}

	var textfile *metrics.PrometheusRecorder

	recorder := opts.Recorder

	if recorder == nil {
		if cfg.MetricsFile != "" {
			textfile = metrics.NewPrometheusRecorder()
			recorder = textfile
		} else {
			recorder = metrics.NopRecorder{}
		}
	}

	return &packager{
		cfg:      cfg,
		workDir:  filepath.Clean(workDir),
		runner:   runner,
		recorder: recorder,
		ledger:   firmware.NewLedger(),
		report: &Report{
			RunID:     uuid.NewString(),
			Durations: make(map[string]time.Duration),
		},
	}, textfile
}

// Run walks the stages in order and stops at the first fatal error.
func (p *packager) Run(ctx context.Context) (err error) {
	if err = p.stage(ctx, StagePreflight, p.preflight); err != nil {
		return err
	}

	if err = p.stage(ctx, StageCleanup, p.cleanup); err != nil {
		return err
	}

	// From here on the working directory holds run output that must not outlive a failure.
	defer func() {
		if err != nil {
			p.releasePartialOutput(ctx)
		}
	}()

	if err = p.stage(ctx, StageCompress, p.compress); err != nil {
		return err
	}

	if p.report.NothingToDo {
		return nil
	}

	if err = p.stage(ctx, StageArchive, p.archive); err != nil {
		return err
	}

	if err = p.stage(ctx, StageChecksum, p.checksum); err != nil {
		return err
	}

	// The deliverable is final, so a late signal must not turn the run into a failure.
	return p.timed(ctx, StageFinalCleanup, p.finalCleanup)
}

// stage runs fn through timed, refusing to start when ctx is already done.
func (p *packager) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return p.timed(ctx, name, fn)
}

// timed runs fn and records its duration under name.
func (p *packager) timed(ctx context.Context, name string, fn func(context.Context) error) error {
	logger.DebugKV(ctx, "Stage started", "stage", name)

	started := time.Now()
	err := fn(ctx)
	elapsed := time.Since(started)

	p.report.Durations[name] = elapsed
	p.recorder.RecordStage(name, elapsed)

	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Stage finished", "stage", name, "duration", elapsed)

	return nil
}

// releasePartialOutput removes compressed artifacts and the intermediate archive after a failure.
func (p *packager) releasePartialOutput(ctx context.Context) {
	names := append(p.ledger.Names(), p.cfg.ArchiveName())
	for _, name := range names {
		if err := p.removeIfExists(name); err != nil {
			logger.WarnKV(ctx, "Could not remove partial output", "file", name, "error", err)
		}
	}
}

// removeIfExists deletes a file in the working directory root; a missing file is not an error.
func (p *packager) removeIfExists(name string) error {
	err := os.Remove(p.path(name))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// path joins name onto the working directory.
func (p *packager) path(name string) string {
	return filepath.Join(p.workDir, name)
}
