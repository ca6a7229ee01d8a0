package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neurlang/ftdata/audio"
	"github.com/neurlang/ftdata/dataset"
)

var sampleRate int

var rootCmd = &cobra.Command{
	Use:          "towav <batch.msgpack>",
	Short:        "Write the waveforms of a dumped batch as WAV files",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		f, err := os.Open(filename)
		if err != nil {
			return err
		}
		defer f.Close()

		batch, err := dataset.DecodeBatch(f)
		if err != nil {
			return fmt.Errorf("decode %s: %w", filename, err)
		}

		for i := 0; i < batch.Size; i++ {
			row := batch.Wave(i)[:batch.WaveLengths[i]]
			wave := make([]float64, len(row))
			for j, v := range row {
				wave[j] = float64(v)
			}

			outputFile := fmt.Sprintf("%s.%d.wav", filename, i)
			if err := audio.SaveWav(outputFile, wave, sampleRate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d samples, %d mel frames\n", outputFile, len(wave), batch.MelLengths[i])
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVar(&sampleRate, "sr", 22050, "sample rate the batch was loaded at")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
