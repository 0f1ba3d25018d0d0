package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
)

// basePPI is pdftoppm's default resolution; raster scale is expressed
// relative to it.
const basePPI = 72

// PopplerRasterizer renders pages by shelling out to pdftoppm. It is the
// production image source for QR scanning; page geometry never depends
// on it.
type PopplerRasterizer struct {
	path string
}

// NewPopplerRasterizer creates a rasterizer for the given PDF file
func NewPopplerRasterizer(path string) *PopplerRasterizer {
	return &PopplerRasterizer{path: path}
}

// Available reports whether pdftoppm can be found on PATH
func (r *PopplerRasterizer) Available() bool {
	_, err := exec.LookPath("pdftoppm")
	return err == nil
}

// Rasterize renders one page to an image at the given scale. pageIndex
// is zero-based; pdftoppm counts from one.
func (r *PopplerRasterizer) Rasterize(ctx context.Context, pageIndex int, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1.0
	}
	pageNum := strconv.Itoa(pageIndex + 1)
	dpi := strconv.Itoa(int(basePPI * scale))

	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageNum,
		"-l", pageNum,
		"-r", dpi,
		r.path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("pdftoppm page %d: %s", pageIndex+1, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, fmt.Errorf("pdftoppm page %d: %w", pageIndex+1, err)
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode pdftoppm output for page %d: %w", pageIndex+1, err)
	}
	return img, nil
}
