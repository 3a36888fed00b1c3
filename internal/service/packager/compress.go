package packager

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/domain/firmware"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/logger"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/process"
)

// compressorArgs are passed before the input and output paths: 1 MiB blocks
// and the content size in the frame header, as Odin expects.
//
//nolint:gochecknoglobals // Fixed tool invocation.
var compressorArgs = []string{"-B6", "--content-size", "-f", "-q"}

// compress discovers firmware images and compresses each one into the working directory root.
// Per-image failures are skipped; only an empty ledger after finding images is fatal.
func (p *packager) compress(ctx context.Context) error {
	logger.Info(ctx, "Looking for firmware images")

	candidates, err := p.discover(ctx)
	if err != nil {
		return fmt.Errorf("discover firmware images: %w", err)
	}

	p.report.Candidates = candidates
	p.recorder.RecordCandidates(len(candidates))

	if len(candidates) == 0 {
		p.report.NothingToDo = true
		return nil
	}

	logger.InfoKV(ctx, "Compressing firmware images", "count", len(candidates))

	for _, candidate := range candidates {
		if err = p.compressCandidate(ctx, candidate); err != nil {
			return err
		}
	}

	if p.ledger.Len() == 0 {
		return fmt.Errorf("%d found, %d failed: %w", len(candidates), len(p.report.Failed), ErrEmptyLedger)
	}

	logger.InfoKV(ctx, "Compression finished",
		"compressed", p.report.Compressed,
		"failed", len(p.report.Failed),
		"artifacts", p.ledger.Len())

	return nil
}

// compressCandidate compresses one image. It returns an error only for fatal conditions.
func (p *packager) compressCandidate(ctx context.Context, candidate string) error {
	name := firmware.ArtifactName(candidate, p.cfg.CompressedExtension)

	if p.ledger.Contains(name) {
		previous := p.ledger.Source(name)

		p.report.Collisions++
		p.recorder.RecordCollision()

		if p.cfg.FailOnCollision {
			return fmt.Errorf("%s and %s both produce %s: %w", previous, candidate, name, ErrArtifactCollision)
		}

		logger.WarnKV(ctx, "Artifact name collision, later image overwrites earlier one",
			"artifact", name, "previous", previous, "current", candidate)
	}

	logger.InfoKV(ctx, "Compressing", "file", candidate, "artifact", name)

	cmd := &process.Command{
		Name: p.cfg.Tools.Compressor,
		Args: append(append([]string(nil), compressorArgs...), localPath(candidate), localPath(name)),
		Dir:  p.workDir,
	}

	_, err := p.runner.Run(ctx, cmd)
	if err != nil {
		p.recorder.RecordCompression(false)

		// The output may be partially written, and on a collision it replaced the earlier artifact.
		if rmErr := p.removeIfExists(name); rmErr != nil {
			logger.WarnKV(ctx, "Could not remove partial artifact", "artifact", name, "error", rmErr)
		}

		if p.ledger.Contains(name) {
			logger.WarnKV(ctx, "Earlier artifact lost to a failed overwrite", "artifact", name,
				"previous", p.ledger.Source(name))
			p.ledger.Remove(name)
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("compress %s: %w", candidate, ctxErr)
		}

		p.report.Failed = append(p.report.Failed, candidate)
		logger.WarnKV(ctx, "Compression failed, skipping image", "file", candidate, "error", err)

		return nil
	}

	p.recorder.RecordCompression(true)
	p.report.Compressed++
	p.ledger.Add(name, candidate)
	p.pinModTime(ctx, candidate, name)

	return nil
}

// pinModTime copies the image mtime onto its artifact so repeated runs archive identical headers.
func (p *packager) pinModTime(ctx context.Context, candidate, name string) {
	info, err := os.Stat(p.path(candidate))
	if err == nil {
		err = os.Chtimes(p.path(name), info.ModTime(), info.ModTime())
	}

	if err != nil {
		logger.DebugKV(ctx, "Could not pin artifact modification time", "artifact", name, "error", err)
	}
}

// discover returns regular files below the working directory whose names carry a source extension.
// Paths are relative to the working directory, in lexical walk order.
func (p *packager) discover(ctx context.Context) ([]string, error) {
	var candidates []string

	err := filepath.WalkDir(p.workDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == p.workDir {
				return err
			}

			logger.WarnKV(ctx, "Skipping unreadable path", "path", path, "error", err)

			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() || !firmware.HasExtension(entry.Name(), p.cfg.SourceExtensions) {
			return nil
		}

		rel, err := filepath.Rel(p.workDir, path)
		if err != nil {
			return err
		}

		candidates = append(candidates, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return candidates, nil
}

// localPath anchors a relative path to the command directory so names starting with '-'
// are not parsed as options.
func localPath(rel string) string {
	return "." + string(filepath.Separator) + rel
}
