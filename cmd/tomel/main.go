package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurlang/ftdata/audio"
	"github.com/neurlang/ftdata/mel"
)

var m = mel.NewMel()

var (
	yReverse bool
	quality  string
	ffmpeg   string
)

var rootCmd = &cobra.Command{
	Use:          "tomel <audio_file>",
	Short:        "Render the mel spectrogram of an audio file as PNG",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		loader := &audio.Loader{
			SampleRate: m.SampleRate,
			Resampler:  audio.ResamplerFor(quality),
			FFmpeg:     ffmpeg,
		}
		wave, err := loader.Load(filename)
		if err != nil {
			return err
		}

		spec, err := m.ToMel(wave)
		if err != nil {
			return fmt.Errorf("generating mel spectrogram: %w", err)
		}

		outputFile := filename + ".png"
		if err := mel.SavePNG(outputFile, spec, yReverse); err != nil {
			return err
		}
		rows, cols := spec.Dims()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d mels x %d frames\n", outputFile, rows, cols)
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&m.SampleRate, "sr", m.SampleRate, "sample rate to resample to")
	f.IntVar(&m.NFFT, "n-fft", m.NFFT, "FFT size")
	f.IntVar(&m.WinSize, "win-length", m.WinSize, "window length")
	f.IntVar(&m.HopSize, "hop-length", m.HopSize, "hop length")
	f.IntVar(&m.NumMels, "n-mels", m.NumMels, "number of mel channels")
	f.Float64Var(&m.Fmin, "fmin", m.Fmin, "lowest mel frequency in Hz")
	f.Float64Var(&m.Fmax, "fmax", m.Fmax, "highest mel frequency in Hz, 0 for Nyquist")
	f.BoolVar(&yReverse, "y-reverse", true, "put low frequencies at the bottom")
	f.StringVar(&quality, "resample-quality", "fast", "fast or high")
	f.StringVar(&ffmpeg, "ffmpeg", audio.DefaultFFmpeg, "ffmpeg binary for m4a and opus")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
