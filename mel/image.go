package mel

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Image renders a spectrogram as a grayscale image, one column per frame.
// Values are min-max scaled. With reverse set, low frequencies are drawn at
// the bottom.
func Image(spec mat.Matrix, reverse bool) *image.Gray {
	mels, frames := spec.Dims()
	img := image.NewGray(image.Rect(0, 0, frames, mels))

	lo, hi := mat.Min(spec), mat.Max(spec)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	for x := 0; x < frames; x++ {
		for y := 0; y < mels; y++ {
			val := (spec.At(y, x) - lo) / span
			col := color.Gray{Y: uint8(255 * val)}
			if reverse {
				img.SetGray(x, mels-y-1, col)
			} else {
				img.SetGray(x, y, col)
			}
		}
	}
	return img
}

// SavePNG writes the spectrogram image to name.
func SavePNG(name string, spec mat.Matrix, reverse bool) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	if err := png.Encode(f, Image(spec, reverse)); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
