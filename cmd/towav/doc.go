// Command towav converts batch dumps written by ftloader --dump back to audio
// files (WAV).
//
// Every item of the batch is trimmed to its true length and written as a mono
// 16-bit WAV, so a dataset can be listened to exactly as the trainer receives
// it. Samples are stored in half precision, so expect a little quantization
// noise.
//
// Usage:
//
//	towav <batch.msgpack> [--sr 22050]
//
// The output WAV files will be named <batch.msgpack>.<item>.wav
package main
