package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

var ErrInvalid = errors.New("invalid config")

// Fmax is an upper mel frequency in Hz. Zero means the Nyquist frequency
// and is what the sentinel "None" decodes to.
type Fmax float64

// UnmarshalYAML accepts a number or one of None, none, null and ~.
func (f *Fmax) UnmarshalYAML(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"'`)
	switch s {
	case "", "None", "none", "null", "~":
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("fmax: %w", err)
	}
	*f = Fmax(v)
	return nil
}

// SpectParams are the spectral transform parameters.
type SpectParams struct {
	NFFT      int     `yaml:"n_fft"`
	WinLength int     `yaml:"win_length"`
	HopLength int     `yaml:"hop_length"`
	NMels     int     `yaml:"n_mels"`
	Fmin      float64 `yaml:"fmin"`
	Fmax      Fmax    `yaml:"fmax"`
}

// Config holds all dataset loader configuration.
type Config struct {
	DataPath    string      `yaml:"data_path"`
	SpectParams SpectParams `yaml:"spect_params"`
	SampleRate  int         `yaml:"sample_rate"`
	SR          int         `yaml:"sr"` // alias of sample_rate
	BatchSize   int         `yaml:"batch_size"`
	NumWorkers  int         `yaml:"num_workers"`

	MinDuration     float64 `yaml:"min_duration"` // seconds, inclusive
	MaxDuration     float64 `yaml:"max_duration"` // seconds, exclusive
	MaxRetries      int     `yaml:"max_retries"`  // negative = unbounded
	Seed            uint64  `yaml:"seed"`         // 0 = random
	Shuffle         bool    `yaml:"shuffle"`
	ResampleQuality string  `yaml:"resample_quality"` // fast, high
	FFmpeg          string  `yaml:"ffmpeg"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		SpectParams: SpectParams{
			NFFT:      1024,
			WinLength: 1024,
			HopLength: 256,
			NMels:     80,
			Fmin:      0,
			Fmax:      8000,
		},
		SampleRate:      22050,
		BatchSize:       1,
		NumWorkers:      0,
		MinDuration:     1.0,
		MaxDuration:     30.0,
		MaxRetries:      64,
		Shuffle:         true,
		ResampleQuality: "fast",
		FFmpeg:          "ffmpeg",
	}
}

// Load reads defaults, then the YAML file at path (if non-empty), then
// FTDATA_* environment variables, and validates the result.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further
// overrides such as command line flags.
func Read(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if cfg.SR != 0 {
		cfg.SampleRate = cfg.SR
		cfg.SR = 0
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DataPath = envStr("FTDATA_DATA_PATH", c.DataPath)
	c.SampleRate = envInt("FTDATA_SAMPLE_RATE", c.SampleRate)
	c.BatchSize = envInt("FTDATA_BATCH_SIZE", c.BatchSize)
	c.NumWorkers = envInt("FTDATA_NUM_WORKERS", c.NumWorkers)
	c.MinDuration = envFloat("FTDATA_MIN_DURATION", c.MinDuration)
	c.MaxDuration = envFloat("FTDATA_MAX_DURATION", c.MaxDuration)
	c.MaxRetries = envInt("FTDATA_MAX_RETRIES", c.MaxRetries)
	c.Seed = uint64(envInt("FTDATA_SEED", int(c.Seed)))
	c.ResampleQuality = envStr("FTDATA_RESAMPLE_QUALITY", c.ResampleQuality)
	c.FFmpeg = envStr("FTDATA_FFMPEG", c.FFmpeg)
}

// Validate checks value ranges. Errors wrap ErrInvalid.
func (c Config) Validate() error {
	p := c.SpectParams
	switch {
	case c.DataPath == "":
		return fmt.Errorf("%w: data_path is required", ErrInvalid)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample_rate must be positive, got %d", ErrInvalid, c.SampleRate)
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch_size must be at least 1, got %d", ErrInvalid, c.BatchSize)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: num_workers must not be negative, got %d", ErrInvalid, c.NumWorkers)
	case p.NFFT <= 0 || p.HopLength <= 0 || p.NMels <= 0:
		return fmt.Errorf("%w: n_fft, hop_length and n_mels must be positive", ErrInvalid)
	case p.WinLength <= 0 || p.WinLength > p.NFFT:
		return fmt.Errorf("%w: win_length %d must be in [1, n_fft]", ErrInvalid, p.WinLength)
	case p.HopLength > p.NFFT:
		return fmt.Errorf("%w: hop_length %d exceeds n_fft %d", ErrInvalid, p.HopLength, p.NFFT)
	case p.Fmax < 0 || p.Fmin < 0:
		return fmt.Errorf("%w: fmin and fmax must not be negative", ErrInvalid)
	case c.MinDuration < 0 || c.MaxDuration <= c.MinDuration:
		return fmt.Errorf("%w: duration range [%g, %g) is empty", ErrInvalid, c.MinDuration, c.MaxDuration)
	case c.ResampleQuality != "fast" && c.ResampleQuality != "high":
		return fmt.Errorf("%w: resample_quality must be fast or high, got %q", ErrInvalid, c.ResampleQuality)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
