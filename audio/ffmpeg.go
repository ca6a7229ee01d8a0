package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
)

// decodeFFmpeg runs l's ffmpeg binary to decode path to mono float32 PCM
// at l.SampleRate.
func decodeFFmpeg(l *Loader, path string) ([]float64, int, error) {
	sampleRate := l.SampleRate
	cmd := exec.Command(l.ffmpeg(),
		"-i", path,
		"-f", "f32le",
		"-acodec", "pcm_f32le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, 0, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	return decodeF32LE(out), sampleRate, nil
}

// decodeF32LE converts little-endian float32 bytes to samples, dropping a
// trailing partial sample.
func decodeF32LE(buf []byte) []float64 {
	samples := make([]float64, len(buf)/4)
	for i := range samples {
		samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
	}
	return samples
}
