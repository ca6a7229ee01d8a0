// Package audio loads audio files as mono floating-point waveforms.
//
// Supported containers are chosen by file extension:
//   - .wav, .mp3 and .ogg (Vorbis) are decoded with beep
//   - .flac is decoded frame by frame with mewkiz/flac
//   - .m4a and .opus are decoded by an ffmpeg subprocess
//
// Multi-channel audio is averaged to mono. When the native sample rate of a
// file differs from the requested one the waveform is resampled.
package audio
