package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neurlang/ftdata/audio"
	"github.com/neurlang/ftdata/config"
	"github.com/neurlang/ftdata/dataset"
	"github.com/neurlang/ftdata/mel"
)

var (
	configPath string
	dataPath   string
	batchSize  int
	workers    int
	sampleRate int
	numBatches int
	dumpDir    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ftloader",
	Short: "Load audio fine-tuning batches and print their shapes",
	Long: `Load audio fine-tuning batches and print their shapes.

Scans the data directory for .wav .mp3 .flac .ogg .m4a and .opus files,
resamples them, computes mel spectrograms and assembles padded batches.

Examples:
  ftloader --data ./example/reference --batch-size 2
  ftloader --config config.yaml --workers 4 --dump ./batches`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file")
	f.StringVar(&dataPath, "data", "", "directory of audio files (overrides data_path)")
	f.IntVar(&batchSize, "batch-size", 0, "batch size (overrides batch_size)")
	f.IntVar(&workers, "workers", -1, "prefetch workers, 0 loads in the caller (overrides num_workers)")
	f.IntVar(&sampleRate, "sr", 0, "sample rate (overrides sr)")
	f.IntVar(&numBatches, "batches", 11, "number of batches to load, 0 for a full epoch")
	f.StringVar(&dumpDir, "dump", "", "write batches as msgpack records under this directory")
	f.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()

	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case "warn", "warning":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger.Sugar()
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("data") {
		cfg.DataPath = dataPath
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = batchSize
	}
	if cmd.Flags().Changed("workers") {
		cfg.NumWorkers = workers
	}
	if cmd.Flags().Changed("sr") {
		cfg.SampleRate = sampleRate
	}
	return cfg, cfg.Validate()
}

func newMel(cfg config.Config) *mel.Mel {
	p := cfg.SpectParams
	return &mel.Mel{
		NFFT:       p.NFFT,
		WinSize:    p.WinLength,
		HopSize:    p.HopLength,
		NumMels:    p.NMels,
		SampleRate: cfg.SampleRate,
		Fmin:       p.Fmin,
		Fmax:       float64(p.Fmax),
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger(logLevel)
	defer log.Sync()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ds, err := dataset.New(cfg.DataPath, dataset.Options{
		SampleRate: cfg.SampleRate,
		BatchSize:  cfg.BatchSize,
		Duration:   dataset.DurationRange{Min: cfg.MinDuration, Max: cfg.MaxDuration},
		MaxRetries: cfg.MaxRetries,
		Mel:        newMel(cfg),
		Audio: &audio.Loader{
			SampleRate: cfg.SampleRate,
			Resampler:  audio.ResamplerFor(cfg.ResampleQuality),
			FFmpeg:     cfg.FFmpeg,
		},
		Logger: log,
	})
	if err != nil {
		return err
	}
	log.Infow("dataset ready", "path", cfg.DataPath, "files", len(ds.Files()), "len", ds.Len(), "sample_rate", ds.SampleRate())

	runDir := ""
	if dumpDir != "" {
		runDir = filepath.Join(dumpDir, uuid.NewString())
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			return fmt.Errorf("create dump dir: %w", err)
		}
		log.Infow("dumping batches", "dir", runDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := dataset.NewLoader(ds, dataset.LoaderOptions{
		BatchSize: cfg.BatchSize,
		Workers:   cfg.NumWorkers,
		Shuffle:   cfg.Shuffle,
		Seed:      cfg.Seed,
		Logger:    log,
	})
	it := loader.Epoch(ctx)
	defer it.Close()

	out := cmd.OutOrStdout()
	for i := 0; numBatches <= 0 || i < numBatches; i++ {
		batch, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Errorw("loading batch failed", "batch", i, "error", err)
			return err
		}
		fmt.Fprintf(out, "batch %d: wave %v mel %v wave_lengths %v mel_lengths %v\n",
			i, batch.WaveShape(), batch.MelShape(), batch.WaveLengths, batch.MelLengths)

		if runDir != "" {
			if err := dump(filepath.Join(runDir, fmt.Sprintf("batch-%05d.msgpack", i)), batch); err != nil {
				return err
			}
		}
	}
	return nil
}

func dump(name string, batch *dataset.Batch) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := batch.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return f.Close()
}
