package audio

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Extensions lists the file suffixes recognized as audio, case-sensitive.
var Extensions = []string{".wav", ".mp3", ".flac", ".ogg", ".m4a", ".opus"}

var ErrUnsupported = errors.New("unsupported audio format")

// LoadError reports a file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DefaultFFmpeg is the ffmpeg binary a Loader runs when FFmpeg is empty.
const DefaultFFmpeg = "ffmpeg"

// decodeFunc decodes path to mono samples. Decoders that resample
// internally honor l.SampleRate and report it as the native rate.
type decodeFunc func(l *Loader, path string) ([]float64, int, error)

var decoders = map[string]decodeFunc{
	".wav":  decodeWav,
	".mp3":  decodeMP3,
	".ogg":  decodeVorbis,
	".flac": decodeFlac,
	".m4a":  decodeFFmpeg,
	".opus": decodeFFmpeg,
}

// Loader decodes files to mono waveforms at SampleRate.
type Loader struct {
	SampleRate int
	Resampler  Resampler
	// FFmpeg is the binary used for containers without a Go decoder.
	FFmpeg string
}

// NewLoader creates a Loader with the default beep resampler.
func NewLoader(sampleRate int) *Loader {
	return &Loader{
		SampleRate: sampleRate,
		Resampler:  BeepResampler{Quality: DefaultQuality},
		FFmpeg:     DefaultFFmpeg,
	}
}

// Load decodes path, resampling when the native rate differs from
// l.SampleRate. Every failure is returned as a *LoadError.
func (l *Loader) Load(path string) ([]float64, error) {
	wave, rate, err := l.Decode(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if rate == l.SampleRate {
		return wave, nil
	}
	resampler := l.Resampler
	if resampler == nil {
		resampler = BeepResampler{Quality: DefaultQuality}
	}
	wave, err = resampler.Resample(wave, rate, l.SampleRate)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("resample %d -> %d: %w", rate, l.SampleRate, err)}
	}
	return wave, nil
}

// Decode returns the mono samples of path and the rate they are sampled at.
func (l *Loader) Decode(path string) ([]float64, int, error) {
	decode, ok := decoders[filepath.Ext(path)]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
	return decode(l, path)
}

func (l *Loader) ffmpeg() string {
	if l.FFmpeg == "" {
		return DefaultFFmpeg
	}
	return l.FFmpeg
}

// Load decodes path at sampleRate with the default resampler.
func Load(path string, sampleRate int) ([]float64, error) {
	return NewLoader(sampleRate).Load(path)
}

// Decode returns the mono samples of path and their native rate.
func Decode(path string, sampleRate int) ([]float64, int, error) {
	return NewLoader(sampleRate).Decode(path)
}
