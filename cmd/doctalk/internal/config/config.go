// Package config loads the doctalk CLI configuration.
//
// Configuration lives in a single YAML file under os.UserConfigDir():
//
//	~/Library/Application Support/doctalk/config.yaml   (macOS)
//	~/.config/doctalk/config.yaml                       (Linux)
//	%AppData%/doctalk/config.yaml                       (Windows)
//
// A missing file yields the defaults; AWS credentials and region flow
// through the SDK's standard resolution chain and only need entries
// here to override it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// appDir is the directory name under os.UserConfigDir().
	appDir = "doctalk"

	// configFile is the configuration file name.
	configFile = "config.yaml"
)

// Config is the doctalk CLI configuration.
type Config struct {
	// Region overrides the AWS region for Bedrock, Polly, and S3.
	Region string `yaml:"region,omitempty"`

	// ScriptModel overrides the Bedrock script generation model.
	ScriptModel string `yaml:"script_model,omitempty"`

	// ImageModel overrides the Bedrock image generation model.
	ImageModel string `yaml:"image_model,omitempty"`

	// Speech selects and configures the TTS backend.
	Speech Speech `yaml:"speech,omitempty"`

	// Publish configures optional S3 publishing of finished episodes.
	Publish Publish `yaml:"publish,omitempty"`

	// WorkDir is the root for per-run working directories. Defaults to
	// a doctalk directory under the OS temp dir.
	WorkDir string `yaml:"work_dir,omitempty"`
}

// Speech configures the TTS backend.
type Speech struct {
	// Backend is "polly" (default) or "openai".
	Backend string `yaml:"backend,omitempty"`

	// VoiceA and VoiceB are the two host voices. Default Ruth/Stephen.
	VoiceA string `yaml:"voice_a,omitempty"`
	VoiceB string `yaml:"voice_b,omitempty"`

	// OpenAIAPIKey and OpenAIModel configure the openai backend. The
	// OPENAI_API_KEY environment variable takes precedence.
	OpenAIAPIKey string `yaml:"openai_api_key,omitempty"`
	OpenAIModel  string `yaml:"openai_model,omitempty"`
}

// Publish configures episode publishing.
type Publish struct {
	// S3Bucket enables publishing when set.
	S3Bucket string `yaml:"s3_bucket,omitempty"`

	// S3Prefix is prepended to published object keys; the run ID is
	// appended after it.
	S3Prefix string `yaml:"s3_prefix,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Speech:  Speech{Backend: "polly"},
		WorkDir: filepath.Join(os.TempDir(), "doctalk"),
	}
}

// Path returns the configuration file path.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, configFile), nil
}

// Load reads the configuration from the default location. A missing
// file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from a specific file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.Speech.Backend == "" {
		cfg.Speech.Backend = "polly"
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = filepath.Join(os.TempDir(), "doctalk")
	}
	return cfg, nil
}

// Save writes the configuration to a specific file, creating parent
// directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
