package firmware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLedger verifies deduplication, sorting and collision reporting.
func TestLedger(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	require.Zero(t, l.Len())
	require.Empty(t, l.Names())

	_, dup := l.Add("modem.bin.lz4", "modem.bin")
	require.False(t, dup)

	_, dup = l.Add("boot.img.lz4", "boot.img")
	require.False(t, dup)

	previous, dup := l.Add("boot.img.lz4", "b/boot.img")
	require.True(t, dup)
	require.Equal(t, "boot.img", previous)
	require.Equal(t, "b/boot.img", l.Source("boot.img.lz4"))

	require.Equal(t, 2, l.Len())
	require.True(t, l.Contains("modem.bin.lz4"))
	require.False(t, l.Contains("modem.bin"))
	require.Equal(t, []string{"boot.img.lz4", "modem.bin.lz4"}, l.Names())

	l.Remove("modem.bin.lz4")
	require.False(t, l.Contains("modem.bin.lz4"))
	require.Equal(t, 1, l.Len())

	// Names returns a copy.
	names := l.Names()
	names[0] = "mutated"
	require.Equal(t, []string{"boot.img.lz4"}, l.Names())
}

// TestArtifactName checks the flat naming rule.
func TestArtifactName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "x.img.lz4", ArtifactName("a/x.img", ".lz4"))
	require.Equal(t, "x.img.lz4", ArtifactName("b/c/x.img", ".lz4"))
	require.Equal(t, "modem.bin.lz4", ArtifactName("modem.bin", ".lz4"))
}

// TestHasExtension checks suffix matching.
func TestHasExtension(t *testing.T) {
	t.Parallel()

	exts := []string{".img", ".bin"}
	require.True(t, HasExtension("boot.img", exts))
	require.True(t, HasExtension("modem.bin", exts))
	require.False(t, HasExtension("boot.img.lz4", exts))
	require.False(t, HasExtension("readme.txt", exts))
}

// TestParseChecksumLine covers accepted and rejected md5sum output.
func TestParseChecksumLine(t *testing.T) {
	t.Parallel()

	const digest = "9e107d9d372bb6826bd81d3542a419d6"

	line, err := ParseChecksumLine(digest + "  CUSTOM-AP-FIRMWARE.tar\n")
	require.NoError(t, err)
	require.Equal(t, digest, line.Digest)
	require.Equal(t, "CUSTOM-AP-FIRMWARE.tar", line.Filename)
	require.Equal(t, digest+"  CUSTOM-AP-FIRMWARE.tar\n", line.String())

	line, err = ParseChecksumLine(digest + " *file with spaces.tar")
	require.NoError(t, err)
	require.Equal(t, "file with spaces.tar", line.Filename)

	bad := []string{
		"",
		digest,
		digest + " x.tar",
		"9E107D9D372BB6826BD81D3542A419D6  x.tar",
		"9e107d9d  x.tar",
		digest + "  x.tar\n" + digest + "  y.tar\n",
	}
	for _, raw := range bad {
		_, err = ParseChecksumLine(raw)
		require.ErrorIs(t, err, ErrMalformedChecksum, raw)
	}
}
