// Package config provides configuration loading and management.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/framecast/pkg/recorder"
)

// Config represents the full configuration for framecast.
type Config struct {
	// Input/Output
	URL        string `yaml:"url"`
	OutputPath string `yaml:"output"`

	// Encoder
	FFmpegPath string `yaml:"ffmpeg_path"`
	Quality    int    `yaml:"quality"`
	Preset     string `yaml:"preset"`

	// Compression. Zero disables the second pass.
	CompressionLevel int `yaml:"compression_level"`

	// Recording
	TimeoutMs         int  `yaml:"timeout_ms"`
	ScreencastQuality int  `yaml:"screencast_quality"`
	WindowWidth       int  `yaml:"window_width"`
	WindowHeight      int  `yaml:"window_height"`
	Headless          bool `yaml:"headless"`

	// Browser
	ChromePath string `yaml:"chrome_path"`

	// Probe
	ProbeTimeoutMs int `yaml:"probe_timeout_ms"`

	// Capture errors
	ReportEmptyCaptureErrors bool `yaml:"report_empty_capture_errors"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Quality:           28,
		CompressionLevel:  32,
		TimeoutMs:         30000,
		ScreencastQuality: 80,
		WindowWidth:       1280,
		WindowHeight:      720,
		Headless:          true,
		ProbeTimeoutMs:    10000,
		DebugDir:          "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ToRecorderConfig converts Config to recorder.Config.
func (c Config) ToRecorderConfig() recorder.Config {
	return recorder.Config{
		OutputPath:               c.OutputPath,
		Quality:                  c.Quality,
		TimeoutMs:                c.TimeoutMs,
		CompressionLevel:         c.CompressionLevel,
		ReportEmptyCaptureErrors: c.ReportEmptyCaptureErrors,
	}
}
