package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an image encoding.
type Format uint8

const (
	JPEG Format = iota
	PNG
)

// FormatFor picks the encoding from a file extension; anything that is not
// .png is written as JPEG.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return PNG
	}
	return JPEG
}

// Encode writes img to w. JPEG uses maximum quality.
func Encode(w io.Writer, img image.Image, f Format) error {
	if f == PNG {
		return png.Encode(w, img)
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
}

// WriteFile encodes img to path in the format implied by its extension.
func WriteFile(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := Encode(f, img, FormatFor(path)); err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return nil
}

// FileName builds the conventional output name
// rule<N>[pattern][_aNN][-policy].<ext>. pattern and policy are omitted
// when empty, alpha when zero.
func FileName(rule int, pattern string, alpha float64, policy, ext string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rule%d", rule)
	sb.WriteString(pattern)
	if alpha > 0 {
		fmt.Fprintf(&sb, "_a%02d", int(alpha*100))
	}
	if policy != "" {
		sb.WriteString("-")
		sb.WriteString(policy)
	}
	if ext == "" {
		ext = "jpeg"
	}
	sb.WriteString(".")
	sb.WriteString(strings.TrimPrefix(ext, "."))
	return sb.String()
}
