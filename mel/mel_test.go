package mel

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
)

func sine(freq float64, n, sr int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sr))
	}
	return out
}

func TestFrames(t *testing.T) {
	m := NewMel()
	tests := []struct {
		samples int
		want    int
	}{
		{44100, 172},
		{22050, 86},
		{1024, 4},
		{384, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := m.Frames(tt.samples); got != tt.want {
			t.Errorf("Frames(%d) = %d, want %d", tt.samples, got, tt.want)
		}
	}
}

func TestToMelShape(t *testing.T) {
	m := NewMel()
	spec, err := m.ToMel(sine(440, 44100, 22050))
	if err != nil {
		t.Fatalf("ToMel: %v", err)
	}
	rows, cols := spec.Dims()
	if rows != 80 || cols != 172 {
		t.Fatalf("dims = [%d, %d], want [80, 172]", rows, cols)
	}

	floor := math.Log(LogFloor)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := spec.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("spec[%d][%d] = %v (not finite)", i, j, v)
			}
			if v < floor-1e-12 {
				t.Fatalf("spec[%d][%d] = %v below log floor %v", i, j, v, floor)
			}
		}
	}
}

func TestToMelShortWave(t *testing.T) {
	m := NewMel()
	_, err := m.ToMel(make([]float64, 100))
	if !errors.Is(err, ErrShortWave) {
		t.Fatalf("err = %v, want ErrShortWave", err)
	}
}

func TestToMelInvalid(t *testing.T) {
	m := NewMel()
	m.WinSize = 2048
	if _, err := m.ToMel(make([]float64, 4096)); err == nil {
		t.Fatal("expected error for window larger than n_fft")
	}
}

func TestToMelPeak(t *testing.T) {
	m := NewMel()
	spec, err := m.ToMel(sine(1000, 22050, 22050))
	if err != nil {
		t.Fatalf("ToMel: %v", err)
	}

	col := mat.Col(nil, 40, spec)
	peak := 0
	for i, v := range col {
		if v > col[peak] {
			peak = i
		}
	}

	lo, hi := hzToMel(m.Fmin), hzToMel(m.Fmax)
	closest := 0
	for i := 0; i < m.NumMels; i++ {
		center := melToHz(lo + (hi-lo)*float64(i+1)/float64(m.NumMels+1))
		best := melToHz(lo + (hi-lo)*float64(closest+1)/float64(m.NumMels+1))
		if math.Abs(center-1000) < math.Abs(best-1000) {
			closest = i
		}
	}
	if d := peak - closest; d < -1 || d > 1 {
		t.Errorf("peak mel bin = %d, want near %d", peak, closest)
	}
}

func TestToMelMatchesDFT(t *testing.T) {
	m := NewMel()
	wave := sine(300, 8000, 22050)
	spec, err := m.ToMel(wave)
	if err != nil {
		t.Fatalf("ToMel: %v", err)
	}

	padded := reflectPad(wave, m.padding())
	win := paddedHann(m.WinSize, m.NFFT)
	frame := make([]float64, m.NFFT)
	start := 3 * m.HopSize
	for i := range frame {
		frame[i] = padded[start+i] * win[i]
	}
	coeffs := fft.FFTReal(frame)

	bins := m.NFFT/2 + 1
	mag := mat.NewVecDense(bins, nil)
	for k := 0; k < bins; k++ {
		re, im := real(coeffs[k]), imag(coeffs[k])
		mag.SetVec(k, math.Sqrt(re*re+im*im+1e-9))
	}
	want := mat.NewVecDense(m.NumMels, nil)
	want.MulVec(filterbank(m.SampleRate, m.NFFT, m.NumMels, m.Fmin, m.Fmax), mag)

	for i := 0; i < m.NumMels; i++ {
		w := math.Log(math.Max(want.AtVec(i), LogFloor))
		if got := spec.At(i, 3); math.Abs(got-w) > 1e-6 {
			t.Fatalf("mel[%d] frame 3 = %v, want %v", i, got, w)
		}
	}
}

func TestMelScaleRoundTrip(t *testing.T) {
	for _, hz := range []float64{0, 100, 999, 1000, 4000, 8000, 11025} {
		if got := melToHz(hzToMel(hz)); math.Abs(got-hz) > 1e-6 {
			t.Errorf("melToHz(hzToMel(%v)) = %v", hz, got)
		}
	}
	if got := hzToMel(1000); math.Abs(got-15) > 1e-12 {
		t.Errorf("hzToMel(1000) = %v, want 15", got)
	}
}

func TestFilterbank(t *testing.T) {
	fb := filterbank(22050, 1024, 80, 0, 8000)
	rows, cols := fb.Dims()
	if rows != 80 || cols != 513 {
		t.Fatalf("dims = [%d, %d], want [80, 513]", rows, cols)
	}
	for i := 0; i < rows; i++ {
		if mat.Max(fb.RowView(i)) <= 0 {
			t.Errorf("filter %d is all zeros", i)
		}
	}
	// nothing above fmax
	for k := int(math.Ceil(8000*1024/22050.0)) + 1; k < cols; k++ {
		if v := mat.Max(fb.ColView(k)); v != 0 {
			t.Fatalf("bin %d above fmax has weight %v", k, v)
		}
	}
}

func TestNyquistFmax(t *testing.T) {
	m := NewMel()
	m.Fmax = 0
	if got := m.fmax(); got != 11025 {
		t.Errorf("fmax() = %v, want 11025", got)
	}
}

func TestReflectPad(t *testing.T) {
	got := reflectPad([]float64{1, 2, 3, 4, 5}, 2)
	want := []float64{3, 2, 1, 2, 3, 4, 5, 4, 3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPaddedHann(t *testing.T) {
	w := paddedHann(4, 8)
	want := []float64{0, 0, 0, 0.5, 1, 0.5, 0, 0}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Errorf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestSavePNG(t *testing.T) {
	m := NewMel()
	spec, err := m.ToMel(sine(440, 22050, 22050))
	if err != nil {
		t.Fatalf("ToMel: %v", err)
	}
	img := Image(spec, true)
	if b := img.Bounds(); b.Dx() != 86 || b.Dy() != 80 {
		t.Fatalf("bounds = %v, want 86x80", b)
	}
	if err := SavePNG(filepath.Join(t.TempDir(), "a.png"), spec, true); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}
