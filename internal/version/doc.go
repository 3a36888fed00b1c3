// Package version reports which firmware-maker build produced a bundle.
//
// Version, Commit and BuildTime are set with -ldflags "-X" at release time.
// Full adds the Go platform so bug reports identify the exact binary.
package version
