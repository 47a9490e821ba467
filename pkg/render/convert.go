package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrConverterMissing is returned when rsvg-convert is not on PATH.
var ErrConverterMissing = errors.New("rsvg-convert not found (install librsvg: brew install librsvg, apt install librsvg2-bin)")

// Converter is the rsvg-convert executable looked up on PATH.
var Converter = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2.0 doubles the resolution;
// scale must be positive.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %v", scale)
	}
	return convert(svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convert(svg []byte, format string, extra ...string) ([]byte, error) {
	bin, err := exec.LookPath(Converter)
	if err != nil {
		return nil, fmt.Errorf("%s export: %w", format, ErrConverterMissing)
	}

	cmd := exec.Command(bin, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", Converter, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
