package compositor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	// logoWidth is the fixed width every logo is scaled to before overlay.
	logoWidth = 100
	// margin offsets the logo from the bottom-right corner of the base image.
	margin = 10
)

// Composite overlays the logo at logoPath onto the base image bytes and
// returns the result encoded as PNG. The logo is resized proportionally to a
// fixed width and anchored at the bottom-right corner with a fixed margin.
func Composite(baseImage []byte, logoPath string) ([]byte, error) {
	logo, err := imaging.Open(logoPath)
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	base, err := imaging.Decode(bytes.NewReader(baseImage))
	if err != nil {
		return nil, fmt.Errorf("decode base image: %w", err)
	}

	logo = imaging.Resize(logo, logoWidth, 0, imaging.Lanczos)

	baseBounds := base.Bounds()
	logoBounds := logo.Bounds()
	pos := image.Pt(
		baseBounds.Dx()-logoBounds.Dx()-margin,
		baseBounds.Dy()-logoBounds.Dy()-margin,
	)

	out := imaging.Overlay(base, logo, pos, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return buf.Bytes(), nil
}
