// Package config loads dataset loader settings from a YAML file and
// environment variables.
//
// Keys follow the training recipe layout:
//
//	data_path: ./example/reference
//	sr: 22050
//	batch_size: 2
//	num_workers: 4
//	spect_params:
//	  n_fft: 1024
//	  win_length: 1024
//	  hop_length: 256
//	  n_mels: 80
//	  fmin: 0
//	  fmax: None
//
// Every scalar key can be overridden by an FTDATA_<KEY> environment variable,
// for example FTDATA_BATCH_SIZE.
package config
