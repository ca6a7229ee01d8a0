// Package mel provides log mel-frequency spectrograms for model training.
//
// The transform follows the convention used by HiFi-GAN style vocoders:
//   - the waveform is reflect-padded by (NFFT-HopSize)/2 samples on both sides
//   - frames are taken without centering, windowed by a periodic Hann window
//   - magnitudes are projected onto a Slaney-normalized mel filterbank
//   - the result is log compressed with a floor of 1e-5
//
// Spectrograms are returned as gonum matrices of shape [NumMels, frames] and
// can be rendered to PNG images for inspection.
package mel
