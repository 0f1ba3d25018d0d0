// Package scan walks document pages, decodes QR codes from their rasters
// and reports hits for CTA generation. Page failures are collected, never
// fatal: a bad page moves the scan along to the next one.
package scan

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi/qrcode"
	xdraw "golang.org/x/image/draw"

	"pdfgrip/internal/coords"
)

// Hit is one decoded payload with its bounding box in image space
// (pixels of the raster that was decoded)
type Hit struct {
	Payload string
	Bounds  coords.Rect
}

// Decoder takes a raster and returns zero or more decoded payloads.
// Finding nothing is not an error.
type Decoder interface {
	Decode(img image.Image) ([]Hit, error)
}

// qrDecoder wraps gozxing's multi QR reader. Oversized rasters are
// downscaled first; reported bounds are mapped back to the original
// image's pixel space.
type qrDecoder struct {
	maxEdge int
}

// NewQRDecoder creates the default QR decoder. Rasters whose longest
// edge exceeds maxEdge are downscaled before decoding; 0 disables
// downscaling.
func NewQRDecoder(maxEdge int) Decoder {
	return &qrDecoder{maxEdge: maxEdge}
}

func (d *qrDecoder) Decode(img image.Image) ([]Hit, error) {
	img, factor := d.shrink(img)

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, err
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	results, err := qrcode.NewQRCodeMultiReader().DecodeMultiple(bmp, hints)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			return nil, nil
		}
		return nil, err
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		bounds, ok := pointsBounds(res.GetResultPoints())
		if !ok {
			continue
		}
		if factor != 1 {
			bounds = coords.Rect{
				X:      bounds.X / factor,
				Y:      bounds.Y / factor,
				Width:  bounds.Width / factor,
				Height: bounds.Height / factor,
			}
		}
		hits = append(hits, Hit{Payload: res.GetText(), Bounds: bounds})
	}
	return hits, nil
}

// shrink downscales an image whose longest edge exceeds maxEdge and
// returns the applied factor (<= 1)
func (d *qrDecoder) shrink(img image.Image) (image.Image, float64) {
	if d.maxEdge <= 0 {
		return img, 1
	}
	b := img.Bounds()
	longest := b.Dx()
	if b.Dy() > longest {
		longest = b.Dy()
	}
	if longest <= d.maxEdge {
		return img, 1
	}

	factor := float64(d.maxEdge) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*factor), int(float64(b.Dy())*factor)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst, factor
}

// pointsBounds computes an axis-aligned box over the detector's result
// points; QR finder patterns sit inside the code, so the box is padded by
// the typical quiet-zone fraction
func pointsBounds(pts []gozxing.ResultPoint) (coords.Rect, bool) {
	if len(pts) == 0 {
		return coords.Rect{}, false
	}
	minX, minY := pts[0].GetX(), pts[0].GetY()
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		if p.GetX() < minX {
			minX = p.GetX()
		}
		if p.GetX() > maxX {
			maxX = p.GetX()
		}
		if p.GetY() < minY {
			minY = p.GetY()
		}
		if p.GetY() > maxY {
			maxY = p.GetY()
		}
	}
	w, h := maxX-minX, maxY-minY
	pad := (w + h) / 2 * 0.15
	return coords.Rect{X: minX - pad, Y: minY - pad, Width: w + 2*pad, Height: h + 2*pad}, true
}
