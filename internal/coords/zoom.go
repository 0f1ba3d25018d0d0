package coords

import "pdfgrip/internal/domain"

// DefaultFitPadding is subtracted from the container width before a
// fit-width scale is computed, leaving room for page chrome.
const DefaultFitPadding = 32.0

// ResolveScale derives the effective scale for a page from the zoom mode,
// the container size and the page's intrinsic size. The result is always
// recomputed from its inputs and never persisted.
func ResolveScale(mode domain.ZoomMode, container Size, page Size, customScale, fitPadding float64) float64 {
	switch mode {
	case domain.ZoomFitWidth:
		return fitWidthScale(container, page, fitPadding)
	case domain.ZoomFitPage:
		fw := fitWidthScale(container, page, fitPadding)
		fh := fitHeightScale(container, page)
		if fh < fw {
			return fh
		}
		return fw
	default:
		if customScale > 0 {
			return customScale
		}
		return 1.0
	}
}

func fitWidthScale(container, page Size, padding float64) float64 {
	if page.Width <= 0 {
		return 1.0
	}
	w := container.Width - padding
	if w <= 0 {
		return 1.0
	}
	return w / page.Width
}

func fitHeightScale(container, page Size) float64 {
	if page.Height <= 0 || container.Height <= 0 {
		return 1.0
	}
	return container.Height / page.Height
}
