package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// VideoConfig is the process-wide configuration for one pipeline
// instance. Provider API keys are resolved once via FromEnv at startup;
// nothing re-reads the environment per call.
type VideoConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	FPS          int    `yaml:"fps"`
	TempDir      string `yaml:"temp_dir"`
	OutputDir    string `yaml:"output_dir"`
	FetchDelayMS int    `yaml:"fetch_delay_ms"`

	// Credentials. Empty key ⇒ that provider reports unavailable and is
	// skipped without a network call.
	GeminiAPIKey     string `yaml:"-"`
	PexelsAPIKey     string `yaml:"-"`
	PixabayAPIKey    string `yaml:"-"`
	ElevenLabsAPIKey string `yaml:"-"`
}

// Default returns the baseline configuration.
func Default() *VideoConfig {
	return &VideoConfig{
		Width:        1280,
		Height:       720,
		FPS:          24,
		TempDir:      "./temp_ppv",
		OutputDir:    "./output_ppv",
		FetchDelayMS: 250,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*VideoConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv copies provider credentials out of the environment. Called
// once at startup; absence of a key silently disables that provider.
func (c *VideoConfig) FromEnv() *VideoConfig {
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.PexelsAPIKey = os.Getenv("PEXELS_API_KEY")
	c.PixabayAPIKey = os.Getenv("PIXABAY_API_KEY")
	c.ElevenLabsAPIKey = os.Getenv("ELEVENLABS_API_KEY")
	return c
}
