package packager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/logger"
)

// cleanup removes leftovers of a previous run from the working directory root.
// Subdirectories are never inspected.
func (p *packager) cleanup(ctx context.Context) error {
	logger.Info(ctx, "Removing leftovers of previous runs")

	entries, err := os.ReadDir(p.workDir)
	if err != nil {
		return fmt.Errorf("read working directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !p.isLeftover(name) {
			continue
		}

		if err = p.removeIfExists(name); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}

		logger.DebugKV(ctx, "Removed leftover", "file", name)
	}

	return nil
}

// isLeftover reports whether name is output this tool produces.
func (p *packager) isLeftover(name string) bool {
	return strings.HasSuffix(name, p.cfg.CompressedExtension) ||
		name == p.cfg.ArchiveName() ||
		name == p.cfg.DeliverableName()
}

// finalCleanup deletes the compressed artifacts once the deliverable exists.
// It never fails: the bundle is already final at this point.
func (p *packager) finalCleanup(ctx context.Context) error {
	logger.Info(ctx, "Removing compressed artifacts")

	for _, name := range p.ledger.Names() {
		err := os.Remove(p.path(name))

		switch {
		case err == nil:
			logger.DebugKV(ctx, "Removed compressed artifact", "file", name)
		case errors.Is(err, fs.ErrNotExist):
			logger.WarnKV(ctx, "Compressed artifact already missing", "file", name)
		default:
			logger.WarnKV(ctx, "Could not remove compressed artifact", "file", name, "error", err)
		}
	}

	return nil
}
