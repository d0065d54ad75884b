package overlay

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/image/vector"
	_ "golang.org/x/image/webp"

	"github.com/set-night/skyvqa/internal/domain"
)

// Highlight is the outline colour of grounded boxes.
var Highlight = color.RGBA{R: 255, A: 255}

// Renderer draws grounding boxes over images.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns a PNG data URL of ref with every valid box outlined.
// An empty box list returns ref untouched. Malformed boxes are skipped.
func (r *Renderer) Render(ctx context.Context, ref domain.ImageRef, boxes []domain.DetectionBox) (domain.ImageRef, error) {
	if len(boxes) == 0 {
		return ref, nil
	}

	img, err := Decode(ctx, ref)
	if err != nil {
		return "", err
	}

	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)

	width, height := b.Dx(), b.Dy()
	stroke := StrokeWidth(width, height)

	// All outlines go into one coverage mask, drawn once.
	z := vector.NewRasterizer(width, height)
	drawn := false
	for i, box := range boxes {
		corners, ok := OrientedCorners(box, width, height)
		if !ok {
			slog.Warn("skipping malformed detection box", "index", i, "label", box.Label, "coords", box.Coords)
			continue
		}
		if addPolygonStroke(z, corners[:], stroke) {
			drawn = true
		}
	}
	if drawn {
		z.Draw(canvas, canvas.Bounds(), image.NewUniform(Highlight), image.Point{})
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode overlay: %w", err)
	}
	return EncodeDataURL("image/png", buf.Bytes()), nil
}

// Decode loads the image behind a data URL, applying EXIF orientation.
func Decode(ctx context.Context, ref domain.ImageRef) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, data, err := DecodeDataURL(ref)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}
