// Package imaging validates and recompresses uploaded report photos.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"reviwa-backend/internal/config"
	"reviwa-backend/internal/domain"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const minQuality = 40

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Options struct {
	MaxDimension int
	Quality      int
	// Threshold is the size in bytes above which an image is re-encoded.
	Threshold int64
	// MaxBytes is the hard limit for a stored image.
	MaxBytes int64
}

func OptionsFromConfig(cfg config.ImagingConfig) Options {
	return Options{
		MaxDimension: cfg.MaxDimension,
		Quality:      cfg.JPEGQuality,
		Threshold:    cfg.RecompressThresholdMB << 20,
		MaxBytes:     domain.MaxImageBytes,
	}
}

// DetectContentType sniffs data and rejects anything that is not a
// supported image format.
func DetectContentType(data []byte) (string, error) {
	ct := http.DetectContentType(data)
	if !allowedTypes[ct] {
		return "", domain.Validationf("only image files are allowed")
	}
	return ct, nil
}

// Process returns the bytes to store and their content type. Images at or
// below the threshold are returned unchanged. Larger ones are downscaled to
// fit MaxDimension and re-encoded as JPEG, lowering quality until the result
// fits MaxBytes.
func Process(data []byte, opts Options) ([]byte, string, error) {
	ct, err := DetectContentType(data)
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) <= opts.Threshold {
		return data, ct, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", domain.Validationf("could not decode image: %v", err)
	}
	img := flatten(resize(src, opts.MaxDimension))

	quality := opts.Quality
	for {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", err
		}
		if int64(buf.Len()) <= opts.MaxBytes {
			return buf.Bytes(), "image/jpeg", nil
		}
		if quality <= minQuality {
			return nil, "", domain.Validationf("image is too large even after compression")
		}
		quality -= 10
		if quality < minQuality {
			quality = minQuality
		}
	}
}

// resize scales src so its longer side is at most maxDim, keeping aspect
// ratio.
func resize(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return src
	}
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// flatten composites transparent images onto white, since JPEG has no alpha.
func flatten(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
