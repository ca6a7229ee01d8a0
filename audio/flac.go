package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// decodeFlac loads a flac file frame by frame, averaging the channels.
func decodeFlac(_ *Loader, path string) ([]float64, int, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	info := stream.Info
	if info.NChannels == 0 || info.BitsPerSample == 0 {
		return nil, 0, fmt.Errorf("flac: invalid stream info")
	}
	scale := float64(int64(1) << (info.BitsPerSample - 1))
	channels := float64(info.NChannels)

	out := make([]float64, 0, info.NSamples)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("flac frame: %w", err)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var sum float64
			for _, sub := range frame.Subframes {
				sum += float64(sub.Samples[i])
			}
			out = append(out, sum/channels/scale)
		}
	}

	return out, int(info.SampleRate), nil
}
