package mel

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/mjibson/go-dsp/window"
	"github.com/r9y9/gossp/stft"
	"gonum.org/v1/gonum/mat"
)

// LogFloor is the smallest magnitude kept before log compression.
const LogFloor = 1e-5

// Mel represents the configuration for generating mel spectrograms.
// A Mel must not be modified after its first use; it is safe for
// concurrent use afterwards.
type Mel struct {
	NFFT       int
	WinSize    int
	HopSize    int
	NumMels    int
	SampleRate int
	Fmin       float64
	// Fmax <= 0 selects the Nyquist frequency.
	Fmax float64

	once   sync.Once
	err    error
	basis  *mat.Dense
	window []float64
}

// NewMel creates a new Mel instance with default values.
func NewMel() *Mel {
	return &Mel{
		NFFT:       1024,
		WinSize:    1024,
		HopSize:    256,
		NumMels:    80,
		SampleRate: 22050,
		Fmin:       0,
		Fmax:       8000,
	}
}

var ErrShortWave = errors.New("wave shorter than reflect padding")

// Validate reports whether the parameters describe a usable transform.
func (m *Mel) Validate() error {
	switch {
	case m.NFFT <= 0 || m.HopSize <= 0 || m.NumMels <= 0 || m.SampleRate <= 0:
		return fmt.Errorf("mel: n_fft, hop, n_mels and sample rate must be positive")
	case m.WinSize <= 0 || m.WinSize > m.NFFT:
		return fmt.Errorf("mel: window size %d must be in [1, n_fft=%d]", m.WinSize, m.NFFT)
	case m.HopSize > m.NFFT:
		return fmt.Errorf("mel: hop %d exceeds n_fft %d", m.HopSize, m.NFFT)
	case m.Fmin < 0 || m.Fmin >= m.fmax():
		return fmt.Errorf("mel: fmin %g must be in [0, fmax=%g)", m.Fmin, m.fmax())
	}
	return nil
}

func (m *Mel) fmax() float64 {
	if m.Fmax <= 0 {
		return float64(m.SampleRate) / 2
	}
	return m.Fmax
}

func (m *Mel) padding() int {
	return (m.NFFT - m.HopSize) / 2
}

// Frames returns the number of mel frames produced for a wave of n samples.
func (m *Mel) Frames(n int) int {
	padded := n + 2*m.padding()
	if n <= m.padding() || padded < m.NFFT {
		return 0
	}
	return (padded-m.NFFT)/m.HopSize + 1
}

func (m *Mel) init() {
	if m.err = m.Validate(); m.err != nil {
		return
	}
	m.basis = filterbank(m.SampleRate, m.NFFT, m.NumMels, m.Fmin, m.fmax())
	m.window = paddedHann(m.WinSize, m.NFFT)
}

// ToMel generates a log mel spectrogram of shape [NumMels, Frames(len(buf))].
func (m *Mel) ToMel(buf []float64) (*mat.Dense, error) {
	m.once.Do(m.init)
	if m.err != nil {
		return nil, m.err
	}

	frames := m.Frames(len(buf))
	if frames == 0 {
		return nil, fmt.Errorf("%w: %d samples, need more than %d", ErrShortWave, len(buf), m.padding())
	}

	s := stft.New(m.HopSize, m.NFFT)
	s.Window = m.window

	spectrum := s.STFT(reflectPad(buf, m.padding()))

	bins := m.NFFT/2 + 1
	magnitude := mat.NewDense(bins, frames, nil)
	for t := 0; t < frames; t++ {
		for k := 0; k < bins; k++ {
			v := spectrum[t][k]
			magnitude.Set(k, t, math.Sqrt(real(v)*real(v)+imag(v)*imag(v)+1e-9))
		}
	}

	out := mat.NewDense(m.NumMels, frames, nil)
	out.Mul(m.basis, magnitude)
	out.Apply(func(_, _ int, v float64) float64 {
		if v < LogFloor {
			v = LogFloor
		}
		return math.Log(v)
	}, out)

	return out, nil
}

// paddedHann returns a periodic Hann window of length win centered in n.
func paddedHann(win, n int) []float64 {
	w := window.Hann(win + 1)[:win]
	out := make([]float64, n)
	copy(out[(n-win)/2:], w)
	return out
}

// reflectPad mirrors p samples on each side, excluding the edge sample.
func reflectPad(buf []float64, p int) []float64 {
	out := make([]float64, len(buf)+2*p)
	copy(out[p:], buf)
	for i := 0; i < p; i++ {
		out[p-1-i] = buf[i+1]
		out[p+len(buf)+i] = buf[len(buf)-2-i]
	}
	return out
}
