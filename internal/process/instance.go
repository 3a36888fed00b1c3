package process

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// OtherInstances returns the PIDs of running processes, other than this one,
// whose executable name matches name.
func OtherInstances(name string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	var (
		thisProcessID = os.Getpid()
		pids          []int
	)

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != name {
			continue
		}

		pids = append(pids, process.Pid())
	}

	return pids, nil
}

// ExecutableName returns the base name of the running binary without a .exe suffix.
func ExecutableName() string {
	path, err := os.Executable()
	if err != nil {
		path = os.Args[0]
	}

	return strings.TrimSuffix(filepath.Base(path), ".exe")
}
