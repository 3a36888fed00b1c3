package packager

import (
	"context"

	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/logger"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/process"
)

// preflight resolves every required tool before anything is touched on disk.
func (p *packager) preflight(ctx context.Context) error {
	logger.Info(ctx, "Checking required tools")

	var missing []string

	for _, tool := range p.cfg.RequiredTools() {
		path, err := p.runner.LookPath(tool)
		if err != nil {
			missing = append(missing, tool)
			continue
		}

		logger.DebugKV(ctx, "Found tool", "tool", tool, "path", path)
	}

	if len(missing) > 0 {
		return &ToolMissingError{Names: missing}
	}

	p.warnAboutOtherInstances(ctx)

	return nil
}

// warnAboutOtherInstances reports concurrent runs; they share the working directory unguarded.
func (p *packager) warnAboutOtherInstances(ctx context.Context) {
	name := process.ExecutableName()

	pids, err := process.OtherInstances(name)
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if len(pids) > 0 {
		logger.WarnKV(ctx, "Another instance appears to be running, output may be corrupted",
			"executable", name, "pids", pids)
	}
}
