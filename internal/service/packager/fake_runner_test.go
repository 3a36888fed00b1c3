package packager

import (
	"archive/tar"
	"context"
	"crypto/md5" //nolint:gosec // md5sum is the format Odin expects.
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minhmc2007/Samsung-Firmware-Maker/internal/process"
)

// fakeRunner imitates lz4, tar and md5sum inside the command directory.
type fakeRunner struct {
	mu sync.Mutex

	// missing lists tools LookPath cannot resolve.
	missing map[string]bool
	// failCompress lists candidates (relative paths) the compressor rejects.
	failCompress map[string]bool
	// failArchive makes tar leave a partial archive and exit non-zero.
	failArchive bool
	// checksumOutput replaces the md5sum output when set.
	checksumOutput string
	// failChecksum makes md5sum exit non-zero.
	failChecksum bool
	// afterRun is called once a command has finished.
	afterRun func(cmd *process.Command)

	calls []*process.Command
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		missing:      make(map[string]bool),
		failCompress: make(map[string]bool),
	}
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}

	return "/usr/bin/" + name, nil
}

func (f *fakeRunner) Run(ctx context.Context, cmd *process.Command) (*process.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return &process.Result{ExitCode: -1}, err
	}

	if f.afterRun != nil {
		defer f.afterRun(cmd)
	}

	switch cmd.Name {
	case "lz4":
		return f.compress(cmd)
	case "tar":
		return f.archive(cmd)
	case "md5sum":
		return f.checksum(cmd)
	default:
		return &process.Result{ExitCode: -1}, errors.New("unexpected command " + cmd.Name)
	}
}

func (f *fakeRunner) callsTo(name string) []*process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	var calls []*process.Command

	for _, c := range f.calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}

	return calls
}

func exitError(name string) (*process.Result, error) {
	return &process.Result{ExitCode: 1}, &process.ExitError{Name: name, ExitCode: 1, Stderr: "simulated failure"}
}

func (f *fakeRunner) compress(cmd *process.Command) (*process.Result, error) {
	in := cmd.Args[len(cmd.Args)-2]
	out := filepath.Join(cmd.Dir, cmd.Args[len(cmd.Args)-1])

	if f.failCompress[strings.TrimPrefix(in, "./")] {
		_ = os.WriteFile(out, []byte("partial"), 0o600)
		return exitError("lz4")
	}

	data, err := os.ReadFile(filepath.Join(cmd.Dir, in))
	if err != nil {
		return exitError("lz4")
	}

	if err = os.WriteFile(out, append([]byte("LZ4:"), data...), 0o600); err != nil {
		return nil, err
	}

	return &process.Result{}, nil
}

func (f *fakeRunner) archive(cmd *process.Command) (*process.Result, error) {
	var (
		archiveName string
		members     []string
	)

	for i, arg := range cmd.Args {
		if name, ok := strings.CutPrefix(arg, "--file="); ok {
			archiveName = name
		}

		if arg == "--" {
			members = cmd.Args[i+1:]
			break
		}
	}

	archivePath := filepath.Join(cmd.Dir, archiveName)

	if f.failArchive {
		_ = os.WriteFile(archivePath, []byte("partial"), 0o600)
		return exitError("tar")
	}

	file, err := os.Create(archivePath)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = file.Close()
	}()

	tw := tar.NewWriter(file)

	for _, member := range members {
		path := filepath.Join(cmd.Dir, member)

		info, err := os.Stat(path)
		if err != nil {
			return exitError("tar")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		header := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     member,
			Mode:     0o644,
			Size:     int64(len(data)),
			ModTime:  info.ModTime().Truncate(time.Second),
			Format:   tar.FormatGNU,
		}

		if err = tw.WriteHeader(header); err != nil {
			return nil, err
		}

		if _, err = tw.Write(data); err != nil {
			return nil, err
		}
	}

	if err = tw.Close(); err != nil {
		return nil, err
	}

	return &process.Result{}, nil
}

func (f *fakeRunner) checksum(cmd *process.Command) (*process.Result, error) {
	if f.failChecksum {
		return exitError("md5sum")
	}

	if f.checksumOutput != "" {
		return &process.Result{Stdout: []byte(f.checksumOutput)}, nil
	}

	name := cmd.Args[len(cmd.Args)-1]

	data, err := os.ReadFile(filepath.Join(cmd.Dir, name))
	if err != nil {
		return exitError("md5sum")
	}

	//nolint:gosec // md5sum is the format Odin expects.
	line := fmt.Sprintf("%x  %s\n", md5.Sum(data), name)

	return &process.Result{Stdout: []byte(line)}, nil
}
