package dataset

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/x448/float16"
)

// batchRecord is the on-disk form of a Batch. Waveforms and spectrograms are
// stored as half precision bit patterns.
type batchRecord struct {
	Size        int      `msgpack:"size"`
	MaxWaveLen  int      `msgpack:"max_wave_len"`
	NumMels     int      `msgpack:"num_mels"`
	MaxMelLen   int      `msgpack:"max_mel_len"`
	WaveLengths []int64  `msgpack:"wave_lengths"`
	MelLengths  []int64  `msgpack:"mel_lengths"`
	Waves       []uint16 `msgpack:"waves"`
	Mels        []uint16 `msgpack:"mels"`
}

func toHalf(in []float32) []uint16 {
	out := make([]uint16, len(in))
	for i, v := range in {
		out[i] = float16.Fromfloat32(v).Bits()
	}
	return out
}

func fromHalf(in []uint16) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float16.Frombits(v).Float32()
	}
	return out
}

// Encode writes b to w as a msgpack record. Sample values are rounded to
// half precision.
func (b *Batch) Encode(w io.Writer) error {
	rec := batchRecord{
		Size:        b.Size,
		MaxWaveLen:  b.MaxWaveLen,
		NumMels:     b.NumMels,
		MaxMelLen:   b.MaxMelLen,
		WaveLengths: b.WaveLengths,
		MelLengths:  b.MelLengths,
		Waves:       toHalf(b.Waves),
		Mels:        toHalf(b.Mels),
	}
	return msgpack.NewEncoder(w).Encode(&rec)
}

// DecodeBatch reads a Batch written by Encode.
func DecodeBatch(r io.Reader) (*Batch, error) {
	var rec batchRecord
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	if len(rec.Waves) != rec.Size*rec.MaxWaveLen || len(rec.Mels) != rec.Size*rec.NumMels*rec.MaxMelLen {
		return nil, fmt.Errorf("batch record: buffer sizes do not match shape [%d %d] [%d %d %d]",
			rec.Size, rec.MaxWaveLen, rec.Size, rec.NumMels, rec.MaxMelLen)
	}
	if len(rec.WaveLengths) != rec.Size || len(rec.MelLengths) != rec.Size {
		return nil, fmt.Errorf("batch record: %d wave lengths and %d mel lengths for %d items",
			len(rec.WaveLengths), len(rec.MelLengths), rec.Size)
	}
	return &Batch{
		Size:        rec.Size,
		MaxWaveLen:  rec.MaxWaveLen,
		NumMels:     rec.NumMels,
		MaxMelLen:   rec.MaxMelLen,
		Waves:       fromHalf(rec.Waves),
		Mels:        fromHalf(rec.Mels),
		WaveLengths: rec.WaveLengths,
		MelLengths:  rec.MelLengths,
	}, nil
}
