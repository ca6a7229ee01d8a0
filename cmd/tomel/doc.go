// Command tomel converts audio files to mel spectrogram images (PNG).
//
// The file is decoded and resampled the same way the data loader does it, and
// its log mel spectrogram is saved as a grayscale image with time running
// left to right. It is useful for checking spectrogram parameters by eye.
//
// Usage:
//
//	tomel <audio_file> [--sr 22050] [--n-mels 80] [--fmax 8000]
//
// The output PNG file will be named <audio_file>.png
//
// Supported input formats: .wav, .mp3, .flac, .ogg, and .m4a and .opus when
// ffmpeg is installed.
package main
