package packager

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/domain/firmware"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/logger"
	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/process"
)

// archiveArgs builds the tar invocation for members.
// The metadata is fixed because Odin rejects archives with unexpected header quirks.
func (p *packager) archiveArgs(members []string) []string {
	args := []string{
		"--create",
		"--file=" + p.cfg.ArchiveName(),
		"--format=gnu",
		"--blocking-factor=" + strconv.Itoa(p.cfg.Archive.BlockingFactor),
		"--quoting-style=escape",
		"--owner=0",
		"--group=0",
		"--numeric-owner",
		"--mode=" + p.cfg.Archive.Mode,
		"--no-recursion",
		"--",
	}

	return append(args, members...)
}

// archive bundles the ledger into the intermediate tar archive.
func (p *packager) archive(ctx context.Context) error {
	members := p.ledger.Names()
	p.report.Members = members

	logger.InfoKV(ctx, "Creating archive", "archive", p.cfg.ArchiveName(), "members", members)

	cmd := &process.Command{
		Name: p.cfg.Tools.Archiver,
		Args: p.archiveArgs(members),
		Dir:  p.workDir,
	}

	if _, err := p.runner.Run(ctx, cmd); err != nil {
		p.discardArchive(ctx)
		return fmt.Errorf("%w: %w", ErrArchiveFailed, err)
	}

	return nil
}

// checksum appends the archive digest line to the archive and renames it to the deliverable.
func (p *packager) checksum(ctx context.Context) error {
	archiveName := p.cfg.ArchiveName()

	logger.InfoKV(ctx, "Appending checksum", "archive", archiveName)

	line, err := p.computeChecksum(ctx, archiveName)
	if err == nil {
		err = p.appendLine(archiveName, line)
	}

	if err == nil {
		err = os.Rename(p.path(archiveName), p.path(p.cfg.DeliverableName()))
	}

	if err != nil {
		p.discardArchive(ctx)
		return fmt.Errorf("%w: %w", ErrChecksumFailed, err)
	}

	info, err := os.Stat(p.path(p.cfg.DeliverableName()))
	if err != nil {
		return fmt.Errorf("stat deliverable: %w", err)
	}

	p.report.Deliverable = p.path(p.cfg.DeliverableName())
	p.report.DeliverableSize = info.Size()
	p.report.Checksum = line.Digest
	p.recorder.RecordDeliverable(info.Size())

	return nil
}

// computeChecksum runs the checksum tool and validates that its line attests archiveName.
func (p *packager) computeChecksum(ctx context.Context, archiveName string) (firmware.ChecksumLine, error) {
	cmd := &process.Command{
		Name: p.cfg.Tools.Checksum,
		Args: []string{archiveName},
		Dir:  p.workDir,
	}

	res, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return firmware.ChecksumLine{}, err
	}

	line, err := firmware.ParseChecksumLine(string(res.Stdout))
	if err != nil {
		return firmware.ChecksumLine{}, err
	}

	if line.Filename != archiveName {
		return firmware.ChecksumLine{}, fmt.Errorf("%q: %w", line.Filename, errChecksumFilename)
	}

	return line, nil
}

// appendLine writes line after the archive's end-of-archive padding and syncs it to disk.
func (p *packager) appendLine(archiveName string, line firmware.ChecksumLine) error {
	file, err := os.OpenFile(p.path(archiveName), os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}

	if _, err = file.WriteString(line.String()); err != nil {
		_ = file.Close()
		return err
	}

	if err = file.Sync(); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// discardArchive removes a partial archive.
func (p *packager) discardArchive(ctx context.Context) {
	if err := p.removeIfExists(p.cfg.ArchiveName()); err != nil {
		logger.WarnKV(ctx, "Could not remove partial archive", "archive", p.cfg.ArchiveName(), "error", err)
	}
}
