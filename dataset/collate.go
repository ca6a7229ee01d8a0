package dataset

import (
	"gonum.org/v1/gonum/floats"
)

// PadValue fills mel frames past each item's length. It sits near the log
// floor of the mel transform so padding reads as silence.
const PadValue = -10.0

// Batch holds co-indexed padded waveforms, mel spectrograms and their true
// lengths. Buffers are row-major.
type Batch struct {
	Size       int
	MaxWaveLen int
	NumMels    int
	MaxMelLen  int

	Waves       []float32 // [Size, MaxWaveLen]
	Mels        []float32 // [Size, NumMels, MaxMelLen]
	WaveLengths []int64   // [Size]
	MelLengths  []int64   // [Size]
}

// WaveShape returns [Size, MaxWaveLen].
func (b *Batch) WaveShape() []int { return []int{b.Size, b.MaxWaveLen} }

// MelShape returns [Size, NumMels, MaxMelLen].
func (b *Batch) MelShape() []int { return []int{b.Size, b.NumMels, b.MaxMelLen} }

// Wave returns the padded waveform row of item i.
func (b *Batch) Wave(i int) []float32 {
	return b.Waves[i*b.MaxWaveLen : (i+1)*b.MaxWaveLen]
}

// Mel returns the padded row of mel channel m of item i.
func (b *Batch) Mel(i, m int) []float32 {
	off := (i*b.NumMels + m) * b.MaxMelLen
	return b.Mels[off : off+b.MaxMelLen]
}

// Collate sorts samples by mel length, longest first, and pads them into a
// Batch. All samples must share the same mel channel count.
func Collate(samples []Sample) *Batch {
	if len(samples) == 0 {
		return &Batch{}
	}

	lengths := make([]float64, len(samples))
	for i, s := range samples {
		lengths[i] = float64(s.Frames())
	}
	order := make([]int, len(samples))
	floats.Argsort(lengths, order)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	first := samples[order[0]]
	numMels, _ := first.Mel.Dims()
	b := &Batch{
		Size:        len(samples),
		NumMels:     numMels,
		MaxMelLen:   first.Frames(),
		WaveLengths: make([]int64, len(samples)),
		MelLengths:  make([]int64, len(samples)),
	}
	for _, s := range samples {
		if len(s.Wave) > b.MaxWaveLen {
			b.MaxWaveLen = len(s.Wave)
		}
	}

	b.Waves = make([]float32, b.Size*b.MaxWaveLen)
	b.Mels = make([]float32, b.Size*b.NumMels*b.MaxMelLen)
	for i := range b.Mels {
		b.Mels[i] = PadValue
	}

	for bid, idx := range order {
		s := samples[idx]
		copy(b.Wave(bid), s.Wave)
		frames := s.Frames()
		for m := 0; m < b.NumMels; m++ {
			row := b.Mel(bid, m)
			src := s.Mel.RawRowView(m)
			for t := 0; t < frames; t++ {
				row[t] = float32(src[t])
			}
		}
		b.WaveLengths[bid] = int64(len(s.Wave))
		b.MelLengths[bid] = int64(frames)
	}

	return b
}
