package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the packaging parameters of a bundler run.
// Every field has a built-in default, so a missing configuration file is never an error.
type Config struct {
	// OutputBaseName is the deliverable stem, e.g. CUSTOM-AP-FIRMWARE.
	OutputBaseName string `yaml:"output_base_name"`
	// SourceExtensions are the suffixes of raw firmware images to collect.
	SourceExtensions []string `yaml:"source_extensions"`
	// CompressedExtension is appended to each image basename after compression.
	CompressedExtension string `yaml:"compressed_extension"`
	// Tools names the external executables used by the run.
	Tools Tools `yaml:"tools"`
	// Archive holds the tar parameters required by Odin-style flashing tools.
	Archive Archive `yaml:"archive"`
	// FailOnCollision aborts the run when two images share a basename
	// instead of letting the later one overwrite the earlier artifact.
	FailOnCollision bool `yaml:"fail_on_collision"`
	// MetricsFile is an optional path for a Prometheus textfile with run metrics.
	MetricsFile string `yaml:"metrics_file"`
}

// Tools names the external collaborators.
type Tools struct {
	// Compressor produces one compressed artifact per image.
	Compressor string `yaml:"compressor"`
	// Archiver bundles compressed artifacts into a tar archive.
	Archiver string `yaml:"archiver"`
	// Checksum prints "<hex>  <filename>" for a file.
	Checksum string `yaml:"checksum"`
}

// Archive holds fixed tar metadata.
type Archive struct {
	// BlockingFactor is the tar record blocking factor.
	BlockingFactor int `yaml:"blocking_factor"`
	// Mode is the octal permission string forced on every member.
	Mode string `yaml:"mode"`
}

const (
	// DefaultOutputBaseName is the stem of the deliverable.
	DefaultOutputBaseName = "CUSTOM-AP-FIRMWARE"

	// DefaultCompressedExtension is the suffix of compressed artifacts.
	DefaultCompressedExtension = ".lz4"

	// DefaultCompressor is the compressor executable.
	DefaultCompressor = "lz4"

	// DefaultArchiver is the archiver executable.
	DefaultArchiver = "tar"

	// DefaultChecksumTool is the checksum executable.
	DefaultChecksumTool = "md5sum"

	// DefaultBlockingFactor is the tar blocking factor expected by Odin.
	DefaultBlockingFactor = 20

	// DefaultMemberMode is rw-r--r--.
	DefaultMemberMode = "644"

	// ArchiveSuffix follows the base name of the intermediate archive.
	ArchiveSuffix = ".tar"

	// DeliverableSuffix follows the base name of the final bundle.
	DeliverableSuffix = ".tar.md5"
)

// DefaultSourceExtensions returns the image suffixes collected by default.
func DefaultSourceExtensions() []string {
	return []string{".img", ".bin"}
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidBaseName is returned when the output base name is unusable as a flat file name.
	errInvalidBaseName = errors.New("output base name must be a plain file name")
	// errInvalidExtension is returned when an extension lacks its leading dot.
	errInvalidExtension = errors.New("extension must start with a dot and have a name")
	// errInvalidBlockingFactor is returned for non-positive blocking factors.
	errInvalidBlockingFactor = errors.New("blocking factor must be positive")
	// errInvalidMode is returned when the member mode is not an octal permission string.
	errInvalidMode = errors.New("member mode must be an octal permission such as 644")
)

// Default returns a configuration with the built-in packaging constants.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fills defaults and checks the provided settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if strings.ContainsAny(cfg.OutputBaseName, `/\`) || strings.HasPrefix(cfg.OutputBaseName, "-") ||
		cfg.OutputBaseName == "." || cfg.OutputBaseName == ".." {
		return fmt.Errorf("%q: %w", cfg.OutputBaseName, errInvalidBaseName)
	}

	for _, ext := range append([]string{cfg.CompressedExtension}, cfg.SourceExtensions...) {
		if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("%q: %w", ext, errInvalidExtension)
		}
	}

	if cfg.Archive.BlockingFactor < 1 {
		return fmt.Errorf("%d: %w", cfg.Archive.BlockingFactor, errInvalidBlockingFactor)
	}

	if !isOctalMode(cfg.Archive.Mode) {
		return fmt.Errorf("%q: %w", cfg.Archive.Mode, errInvalidMode)
	}

	return nil
}

// ArchiveName returns the intermediate archive file name.
func (c *Config) ArchiveName() string {
	return c.OutputBaseName + ArchiveSuffix
}

// DeliverableName returns the final bundle file name.
func (c *Config) DeliverableName() string {
	return c.OutputBaseName + DeliverableSuffix
}

// RequiredTools lists the executables that must be resolvable before a run.
func (c *Config) RequiredTools() []string {
	return []string{c.Tools.Compressor, c.Tools.Archiver, c.Tools.Checksum}
}

func applyDefaults(cfg *Config) {
	if cfg.OutputBaseName == "" {
		cfg.OutputBaseName = DefaultOutputBaseName
	}

	if len(cfg.SourceExtensions) == 0 {
		cfg.SourceExtensions = DefaultSourceExtensions()
	}

	if cfg.CompressedExtension == "" {
		cfg.CompressedExtension = DefaultCompressedExtension
	}

	if cfg.Tools.Compressor == "" {
		cfg.Tools.Compressor = DefaultCompressor
	}

	if cfg.Tools.Archiver == "" {
		cfg.Tools.Archiver = DefaultArchiver
	}

	if cfg.Tools.Checksum == "" {
		cfg.Tools.Checksum = DefaultChecksumTool
	}

	if cfg.Archive.BlockingFactor == 0 {
		cfg.Archive.BlockingFactor = DefaultBlockingFactor
	}

	if cfg.Archive.Mode == "" {
		cfg.Archive.Mode = DefaultMemberMode
	}
}

func isOctalMode(s string) bool {
	if len(s) < 3 || len(s) > 4 {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '7' {
			return false
		}
	}

	return true
}
