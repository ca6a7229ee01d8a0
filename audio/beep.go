package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

type beepDecoder func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func decodeWav(_ *Loader, path string) ([]float64, int, error) {
	return decodeBeep(path, func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(rc)
	})
}

func decodeMP3(_ *Loader, path string) ([]float64, int, error) {
	return decodeBeep(path, mp3.Decode)
}

func decodeVorbis(_ *Loader, path string) ([]float64, int, error) {
	return decodeBeep(path, vorbis.Decode)
}

func decodeBeep(path string, decode beepDecoder) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	stream, format, err := decode(file)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	out := drain(stream, stream.Len())
	if err := stream.Err(); err != nil {
		return nil, 0, fmt.Errorf("stream: %w", err)
	}
	return out, int(format.SampleRate), nil
}

// drain reads a streamer to the end, averaging both channels.
func drain(s beep.Streamer, hint int) []float64 {
	if hint < 0 {
		hint = 0
	}
	out := make([]float64, 0, hint)
	samples := make([][2]float64, 4096)
	for {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			out = append(out, (samples[i][0]+samples[i][1])/2)
		}
		if !ok {
			break
		}
	}
	return out
}

// monoStreamer plays a mono waveform on both channels.
type monoStreamer struct {
	samples []float64
	pos     int
}

func (m *monoStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if m.pos >= len(m.samples) {
		return 0, false
	}
	for n < len(samples) && m.pos < len(m.samples) {
		samples[n][0] = m.samples[m.pos]
		samples[n][1] = m.samples[m.pos]
		n++
		m.pos++
	}
	return n, true
}

func (m *monoStreamer) Err() error { return nil }

// SaveWav saves a mono 16-bit wav file from a sample vector.
func SaveWav(name string, wave []float64, sampleRate int) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(f, &monoStreamer{samples: wave}, format); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
