package firmware

import (
	"path/filepath"
	"strings"
)

// ArtifactName returns the flat compressed artifact name for a candidate path.
// Subdirectories are dropped, so a/x.img and b/x.img both map to x.img.lz4.
func ArtifactName(candidate, compressedExt string) string {
	return filepath.Base(candidate) + compressedExt
}

// HasExtension reports whether name ends with one of exts.
func HasExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}
