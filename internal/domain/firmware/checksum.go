package firmware

import (
	"errors"
	"fmt"
	"strings"
)

// digestHexLength is the length of a hex-encoded 128-bit digest.
const digestHexLength = 32

// ErrMalformedChecksum is returned when a checksum line does not match "<hex>  <filename>".
var ErrMalformedChecksum = errors.New("malformed checksum line")

// ChecksumLine is one line of md5sum-style output.
type ChecksumLine struct {
	// Digest is the lowercase hex digest.
	Digest string
	// Filename is the name the digest attests to.
	Filename string
}

// String renders the line exactly as appended to the deliverable, newline included.
func (c ChecksumLine) String() string {
	return c.Digest + "  " + c.Filename + "\n"
}

// ParseChecksumLine parses checksum tool output.
// A trailing newline is accepted; a leading '*' binary-mode marker on the filename is stripped.
func ParseChecksumLine(raw string) (ChecksumLine, error) {
	line := strings.TrimRight(raw, "\r\n")
	if strings.ContainsAny(line, "\r\n") {
		return ChecksumLine{}, fmt.Errorf("%w: more than one line", ErrMalformedChecksum)
	}

	digest, filename, found := strings.Cut(line, " ")
	if !found {
		return ChecksumLine{}, fmt.Errorf("%w: %q", ErrMalformedChecksum, line)
	}

	if len(digest) != digestHexLength || !isLowerHex(digest) {
		return ChecksumLine{}, fmt.Errorf("%w: bad digest %q", ErrMalformedChecksum, digest)
	}

	// md5sum separates with two characters: a space and either ' ' (text) or '*' (binary).
	if len(filename) < 2 || (filename[0] != ' ' && filename[0] != '*') {
		return ChecksumLine{}, fmt.Errorf("%w: %q", ErrMalformedChecksum, line)
	}

	return ChecksumLine{
		Digest:   digest,
		Filename: filename[1:],
	}, nil
}

func isLowerHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}

	return true
}
