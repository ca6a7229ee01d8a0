package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/ftdata/audio"
	"github.com/neurlang/ftdata/mel"
)

// DefaultMaxRetries bounds the random re-draws of a failing sample.
const DefaultMaxRetries = 64

// DurationRange is the accepted clip length in seconds, [Min, Max).
type DurationRange struct {
	Min float64
	Max float64
}

// DefaultDuration accepts clips from one second up to, not including,
// thirty seconds.
var DefaultDuration = DurationRange{Min: 1.0, Max: 30.0}

// Contains reports whether n samples at sampleRate fall inside the range.
func (r DurationRange) Contains(n, sampleRate int) bool {
	return float64(n) >= r.Min*float64(sampleRate) && float64(n) < r.Max*float64(sampleRate)
}

// AudioLoader decodes a file to a mono waveform at a fixed rate.
type AudioLoader interface {
	Load(path string) ([]float64, error)
}

// Sample is one training item.
type Sample struct {
	Wave []float32
	Mel  *mat.Dense // [num_mels, frames]
}

// Frames returns the mel frame count.
func (s Sample) Frames() int {
	if s.Mel == nil {
		return 0
	}
	_, c := s.Mel.Dims()
	return c
}

// Options configure a Dataset. Zero values select defaults.
type Options struct {
	SampleRate int // default Mel.SampleRate, else 22050
	BatchSize  int // minimum logical length, default 1
	Duration   DurationRange
	// MaxRetries is the number of random re-draws after a failed attempt.
	// Zero selects DefaultMaxRetries; negative retries forever.
	MaxRetries int
	Mel        *mel.Mel
	Audio      AudioLoader
	Logger     *zap.SugaredLogger
	// Intn draws retry indices; it must be safe for concurrent use.
	Intn func(n int) int
}

// Dataset maps logical indices to audio files and produces samples on
// demand. It holds no mutable state and is safe for concurrent use.
type Dataset struct {
	files      []string
	n          int
	sampleRate int
	duration   DurationRange
	maxRetries int
	mel        *mel.Mel
	audio      AudioLoader
	log        *zap.SugaredLogger
	intn       func(n int) int
}

// New scans root and builds a Dataset over the files found.
func New(root string, opts Options) (*Dataset, error) {
	files, err := Scan(root)
	if err != nil {
		return nil, err
	}
	return FromFiles(files, opts)
}

// FromFiles builds a Dataset over an explicit file list. When there are
// fewer files than opts.BatchSize the list is repeated, doubling each round,
// until it is at least that long.
func FromFiles(files []string, opts Options) (*Dataset, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrEmptyDataset)
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 22050
		if opts.Mel != nil {
			opts.SampleRate = opts.Mel.SampleRate
		}
	}
	if opts.Duration == (DurationRange{}) {
		opts.Duration = DefaultDuration
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Mel == nil {
		opts.Mel = mel.NewMel()
		opts.Mel.SampleRate = opts.SampleRate
	}
	if opts.Audio == nil {
		opts.Audio = audio.NewLoader(opts.SampleRate)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	if err := opts.Mel.Validate(); err != nil {
		return nil, err
	}
	if opts.Mel.SampleRate != opts.SampleRate {
		return nil, fmt.Errorf("%w: mel transform at %d Hz, audio at %d Hz",
			ErrSampleRateMismatch, opts.Mel.SampleRate, opts.SampleRate)
	}

	n := len(files)
	for n < opts.BatchSize {
		n *= 2
	}

	return &Dataset{
		files:      append([]string(nil), files...),
		n:          n,
		sampleRate: opts.SampleRate,
		duration:   opts.Duration,
		maxRetries: opts.MaxRetries,
		mel:        opts.Mel,
		audio:      opts.Audio,
		log:        opts.Logger,
		intn:       opts.Intn,
	}, nil
}

// Len returns the logical length, including repetitions.
func (d *Dataset) Len() int { return d.n }

// Files returns the distinct files discovered.
func (d *Dataset) Files() []string { return d.files }

// SampleRate returns the rate all waveforms are produced at.
func (d *Dataset) SampleRate() int { return d.sampleRate }

// Path resolves a logical index, wrapped into [0, Len()), to its file.
func (d *Dataset) Path(i int) string {
	return d.files[d.wrap(i)%len(d.files)]
}

func (d *Dataset) wrap(i int) int {
	return ((i % d.n) + d.n) % d.n
}

// Get returns the sample at logical index i. A file that fails to load or
// whose duration is out of range is skipped by drawing a uniformly random
// index instead; after MaxRetries re-draws Get gives up with a
// *SampleUnavailableError.
func (d *Dataset) Get(i int) (Sample, error) {
	idx := d.wrap(i)
	var (
		attempts int
		last     error
	)
	for d.maxRetries < 0 || attempts <= d.maxRetries {
		attempts++
		s, err := d.load(idx)
		if err == nil {
			return s, nil
		}
		last = err

		var de *DurationError
		if errors.As(err, &de) {
			d.log.Infow("audio too short or too long, skipping", "path", de.Path, "seconds", de.Seconds)
		} else {
			d.log.Warnw("failed to load sample", "index", idx, "path", d.Path(idx), "error", err)
		}
		idx = d.intn(d.n)
	}
	return Sample{}, &SampleUnavailableError{Index: i, Attempts: attempts, Err: last}
}

func (d *Dataset) load(idx int) (Sample, error) {
	path := d.Path(idx)

	wave, err := d.audio.Load(path)
	if err != nil {
		var le *audio.LoadError
		if !errors.As(err, &le) {
			err = &audio.LoadError{Path: path, Err: err}
		}
		return Sample{}, err
	}

	if !d.duration.Contains(len(wave), d.sampleRate) {
		return Sample{}, &DurationError{
			Path:    path,
			Seconds: float64(len(wave)) / float64(d.sampleRate),
			Range:   d.duration,
		}
	}

	spec, err := d.mel.ToMel(wave)
	if err != nil {
		return Sample{}, fmt.Errorf("mel %s: %w", path, err)
	}

	w := make([]float32, len(wave))
	for j, v := range wave {
		w[j] = float32(v)
	}
	return Sample{Wave: w, Mel: spec}, nil
}
