// Package process runs the external tools the bundler depends on.
//
// Runner is the narrow seam between the packager and the operating system:
// LookPath for preflight checks and a blocking Run that captures exit status
// and output. OtherInstances inspects the process table for concurrent runs.
package process
