package audio

import (
	"fmt"
	"math"

	"github.com/faiface/beep"
	resampling "github.com/tphakala/go-audio-resampling"
)

// DefaultQuality is the beep interpolation quality used by NewLoader.
const DefaultQuality = 4

// Resampler converts a mono waveform between sample rates.
type Resampler interface {
	Resample(wave []float64, from, to int) ([]float64, error)
}

// BeepResampler interpolates with beep.Resample. Quality ranges over
// [1, 64]; higher is slower and more accurate.
type BeepResampler struct {
	Quality int
}

func (r BeepResampler) Resample(wave []float64, from, to int) ([]float64, error) {
	if from == to {
		return wave, nil
	}
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", from, to)
	}
	quality := r.Quality
	if quality < 1 || quality > 64 {
		quality = DefaultQuality
	}

	rs := beep.Resample(quality, beep.SampleRate(from), beep.SampleRate(to), &monoStreamer{samples: wave})
	out := drain(rs, int(int64(len(wave))*int64(to)/int64(from))+1)
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SoxrResampler uses the pure Go soxr-style polyphase resampler at its
// high quality preset. The filter tail is flushed, so the output holds the
// full resampled length.
type SoxrResampler struct{}

func (SoxrResampler) Resample(wave []float64, from, to int) ([]float64, error) {
	if from == to {
		return wave, nil
	}
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	out, err := rs.Process(wave)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	tail, err := rs.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush: %w", err)
	}
	out = append(out, tail...)

	// output length follows the rate ratio exactly
	want := resampledLen(len(wave), from, to)
	if len(out) > want {
		out = out[:want]
	}
	for len(out) < want {
		out = append(out, 0)
	}
	return out, nil
}

// resampledLen is the sample count n samples at rate from map to at rate to.
func resampledLen(n, from, to int) int {
	return int(math.Round(float64(n) * float64(to) / float64(from)))
}

// ResamplerFor maps a quality name to a Resampler: "high" selects
// SoxrResampler, anything else the beep resampler.
func ResamplerFor(quality string) Resampler {
	if quality == "high" {
		return SoxrResampler{}
	}
	return BeepResampler{Quality: DefaultQuality}
}
