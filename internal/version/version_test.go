package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Name+" "+Short())
	require.Contains(t, Full(), runtime.GOOS+"/"+runtime.GOARCH)
	require.Contains(t, Full(), "commit "+Commit)
}

// TestAttachCobraVersionCommand prints the version line through the subcommand.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		args []string
		want string
	}{
		"full":  {args: []string{"version"}, want: Full() + "\n"},
		"short": {args: []string{"version", "--short"}, want: Short() + "\n"},
	}

	for name, tc := range cases {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := &cobra.Command{Use: Name}
			AttachCobraVersionCommand(root)

			var out bytes.Buffer

			root.SetOut(&out)
			root.SetArgs(tc.args)

			require.NoError(t, root.Execute())
			require.Equal(t, tc.want, out.String())
		})
	}
}
