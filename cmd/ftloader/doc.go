// Command ftloader runs the fine-tuning data loader over a directory of audio
// files and reports the shape of every batch it produces.
//
// It is meant as a smoke test of a dataset before training: every file is
// decoded, resampled and turned into a mel spectrogram exactly as the
// trainer would see it. With --dump the batches are also written as msgpack
// records that towav can turn back into audio.
//
// Usage:
//
//	ftloader --data <dir> [--config config.yaml] [--batch-size 2] [--workers 4]
//
// Settings come from the YAML file, then FTDATA_* environment variables, then
// flags.
package main
