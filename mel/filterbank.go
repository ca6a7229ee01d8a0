package mel

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melLinearStep = 200.0 / 3
	melBreakHz    = 1000.0
	melBreak      = melBreakHz / melLinearStep
)

var melLogStep = math.Log(6.4) / 27.0

func hzToMel(hz float64) float64 {
	if hz >= melBreakHz {
		return melBreak + math.Log(hz/melBreakHz)/melLogStep
	}
	return hz / melLinearStep
}

func melToHz(mel float64) float64 {
	if mel >= melBreak {
		return melBreakHz * math.Exp(melLogStep*(mel-melBreak))
	}
	return mel * melLinearStep
}

// filterbank builds the [mels, nfft/2+1] triangular filter matrix with
// Slaney area normalization.
func filterbank(sampleRate, nfft, mels int, fmin, fmax float64) *mat.Dense {
	bins := nfft/2 + 1

	freqs := make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * float64(sampleRate) / float64(nfft)
	}

	lo, hi := hzToMel(fmin), hzToMel(fmax)
	points := make([]float64, mels+2)
	for i := range points {
		points[i] = melToHz(lo + (hi-lo)*float64(i)/float64(mels+1))
	}

	fb := mat.NewDense(mels, bins, nil)
	for i := 0; i < mels; i++ {
		left, center, right := points[i], points[i+1], points[i+2]
		norm := 2.0 / (right - left)
		for k, f := range freqs {
			lower := (f - left) / (center - left)
			upper := (right - f) / (right - center)
			w := math.Min(lower, upper)
			if w > 0 {
				fb.Set(i, k, w*norm)
			}
		}
	}
	return fb
}
