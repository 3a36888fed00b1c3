package packager

import (
	"errors"
	"strings"
)

var (
	// ErrToolMissing is wrapped by ToolMissingError.
	ErrToolMissing = errors.New("required tool not found")
	// ErrEmptyLedger indicates images were found but none compressed.
	ErrEmptyLedger = errors.New("no firmware image could be compressed")
	// ErrArtifactCollision indicates two images map to the same artifact name
	// while collisions are configured to be fatal.
	ErrArtifactCollision = errors.New("compressed artifact name collision")
	// ErrArchiveFailed indicates the archiver did not produce an archive.
	ErrArchiveFailed = errors.New("create archive")
	// ErrChecksumFailed indicates the checksum could not be computed or appended.
	ErrChecksumFailed = errors.New("append checksum")
	// errChecksumFilename indicates the checksum tool attested a different file.
	errChecksumFilename = errors.New("checksum line names another file")
)

// ToolMissingError lists every required tool absent from PATH.
type ToolMissingError struct {
	// Names of the missing executables, in the order they were checked.
	Names []string
}

// Error implements error.
func (e *ToolMissingError) Error() string {
	return ErrToolMissing.Error() + ": " + strings.Join(e.Names, ", ")
}

// Unwrap lets callers match ErrToolMissing.
func (e *ToolMissingError) Unwrap() error {
	return ErrToolMissing
}
