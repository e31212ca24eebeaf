// Package imaging normalizes uploaded garment photos before they reach the blob store.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path"
	"strings"
	"unicode"

	"golang.org/x/image/draw"
)

const (
	MaxDimension = 1600
	JPEGQuality  = 85
	MaxBytes     = 10 << 20
)

var ErrUnsupported = errors.New("unsupported image format")

var allowed = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type Result struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process sniffs the real content type, caps the longest side at MaxDimension
// and re-encodes as JPEG.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", MaxBytes)
	}

	if ct := http.DetectContentType(data); !allowed[ct] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	b := img.Bounds()
	return &Result{Data: buf.Bytes(), MIME: "image/jpeg", Width: b.Dx(), Height: b.Dy()}, nil
}

func fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	nw, nh := maxDim, maxDim
	if w > h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Filename keeps a safe base name and forces the .jpg extension, since
// Process always emits JPEG.
func Filename(original string, index int) string {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ' || r == '.':
			return '_'
		}
		return -1
	}, base)
	if clean == "" || clean == "_" {
		clean = fmt.Sprintf("image_%d", index+1)
	}
	return clean + ".jpg"
}
