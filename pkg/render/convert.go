package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Converter is the librsvg command used for PDF and PNG output.
const Converter = "rsvg-convert"

// ErrNoConverter is returned when [Converter] is not on PATH.
var ErrNoConverter = errors.New(Converter + " not found; install librsvg (brew install librsvg, apt install librsvg2-bin)")

// Available reports whether [Converter] is installed.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG. A zoom of 2 doubles the resolution;
// zero or less means 1.
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	return convert(ctx, svg, "png", "--zoom", strconv.FormatFloat(zoom, 'f', 2, 64))
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(Converter)
	if err != nil {
		return nil, ErrNoConverter
	}

	cmd := exec.CommandContext(ctx, path, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s to %s: %w: %s", Converter, format, err, msg)
		}
		return nil, fmt.Errorf("%s to %s: %w", Converter, format, err)
	}
	return out, nil
}
