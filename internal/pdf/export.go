package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/sukalov/songbot/internal/logger"
	"github.com/sukalov/songbot/internal/pagefit"
)

// Exporter picks a font size with pagefit and renders the sheet once.
type Exporter struct {
	renderer *Renderer
	fitter   *pagefit.Fitter
}

func NewExporter(renderer *Renderer, fit pagefit.Config) *Exporter {
	return &Exporter{
		renderer: renderer,
		fitter:   pagefit.New(renderer, fit),
	}
}

// Export writes a lyrics sheet for text to w. Text that does not fit even at
// the minimum size is still exported, over several pages.
func (e *Exporter) Export(ctx context.Context, w io.Writer, text string) (pagefit.Result, error) {
	res, err := e.fitter.Fit(ctx, text)
	if err != nil {
		return res, fmt.Errorf("failed to fit lyrics on a page: %w", err)
	}

	pages, err := e.renderer.Render(w, text, res.FontSize)
	if err != nil {
		return res, err
	}

	if pages > 1 {
		logger.Warn(fmt.Sprintf("Export: content needs %d pages even at %.1fpt (floor reached: %v)",
			pages, res.FontSize, res.HitFloor))
	} else {
		logger.Debug(fmt.Sprintf("Export: rendered at %.1fpt after %d probes", res.FontSize, res.Probes))
	}
	res.Pages = pages
	return res, nil
}
