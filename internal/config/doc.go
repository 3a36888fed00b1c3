// Package config defines the packaging parameters of a bundler run and
// provides helpers to load and validate them from YAML.
//
// All fields default to the Odin constants (CUSTOM-AP-FIRMWARE, .img/.bin,
// .lz4, lz4/tar/md5sum, blocking factor 20, mode 644), so the file is optional.
package config
