package dataset

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// sample builds a Sample whose wave values and mel cells encode tag.
func sample(tag float32, waveLen, mels, frames int) Sample {
	w := make([]float32, waveLen)
	for i := range w {
		w[i] = tag
	}
	m := mat.NewDense(mels, frames, nil)
	for r := 0; r < mels; r++ {
		for c := 0; c < frames; c++ {
			m.Set(r, c, float64(tag)+float64(r))
		}
	}
	return Sample{Wave: w, Mel: m}
}

func TestCollate(t *testing.T) {
	samples := []Sample{
		sample(1, 300, 3, 4),
		sample(2, 500, 3, 7),
		sample(3, 100, 3, 2),
	}
	b := Collate(samples)

	if got := b.WaveShape(); got[0] != 3 || got[1] != 500 {
		t.Fatalf("WaveShape = %v, want [3 500]", got)
	}
	if got := b.MelShape(); got[0] != 3 || got[1] != 3 || got[2] != 7 {
		t.Fatalf("MelShape = %v, want [3 3 7]", got)
	}
	if len(b.Waves) != 3*500 || len(b.Mels) != 3*3*7 {
		t.Fatalf("buffer sizes = %d, %d", len(b.Waves), len(b.Mels))
	}

	// longest mel first
	wantTags := []float32{2, 1, 3}
	wantWave := []int64{500, 300, 100}
	wantMel := []int64{7, 4, 2}
	for i, tag := range wantTags {
		if b.WaveLengths[i] != wantWave[i] || b.MelLengths[i] != wantMel[i] {
			t.Errorf("item %d lengths = %d/%d, want %d/%d", i, b.WaveLengths[i], b.MelLengths[i], wantWave[i], wantMel[i])
		}
		wave := b.Wave(i)
		for j, v := range wave {
			want := float32(0)
			if int64(j) < wantWave[i] {
				want = tag
			}
			if v != want {
				t.Fatalf("item %d wave[%d] = %v, want %v", i, j, v, want)
			}
		}
		for m := 0; m < 3; m++ {
			row := b.Mel(i, m)
			for f, v := range row {
				want := float32(PadValue)
				if int64(f) < wantMel[i] {
					want = tag + float32(m)
				}
				if v != want {
					t.Fatalf("item %d mel[%d][%d] = %v, want %v", i, m, f, v, want)
				}
			}
		}
	}
}

func TestCollateLongestWaveNotLongestMel(t *testing.T) {
	// wave padding follows the longest wave even when it is not sorted first
	b := Collate([]Sample{sample(1, 900, 2, 3), sample(2, 400, 2, 5)})
	if b.MaxWaveLen != 900 || b.MaxMelLen != 5 {
		t.Fatalf("MaxWaveLen/MaxMelLen = %d/%d, want 900/5", b.MaxWaveLen, b.MaxMelLen)
	}
	if b.WaveLengths[0] != 400 || b.WaveLengths[1] != 900 {
		t.Errorf("WaveLengths = %v, want [400 900]", b.WaveLengths)
	}
}

func TestCollateSingle(t *testing.T) {
	b := Collate([]Sample{sample(5, 10, 4, 2)})
	if b.Size != 1 || b.MaxWaveLen != 10 || b.NumMels != 4 || b.MaxMelLen != 2 {
		t.Fatalf("batch = %+v", b)
	}
	for _, v := range b.Mels {
		if v == PadValue {
			t.Fatal("single item batch contains padding")
		}
	}
}

func TestCollateEmpty(t *testing.T) {
	b := Collate(nil)
	if b.Size != 0 || len(b.Waves) != 0 || len(b.Mels) != 0 {
		t.Fatalf("batch = %+v, want empty", b)
	}
}
