// Package pdf renders lyrics onto printable pages. The Renderer doubles as
// the page-count oracle for pagefit.
package pdf

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

const coreFont = "Helvetica"

// Config describes the page and font used for lyrics sheets.
type Config struct {
	Margin     float64 // mm, applied on every side
	FontPath   string  // UTF-8 TrueType font; empty means core Helvetica
	FontFamily string
	PageSize   string
}

func DefaultConfig() Config {
	return Config{
		Margin:     4,
		FontFamily: "DejaVu",
		PageSize:   "A4",
	}
}

// Renderer lays text out with fpdf. It keeps no state between calls, so
// probing the same text at many sizes has no side effects.
type Renderer struct {
	cfg  Config
	font []byte
}

// NewRenderer loads the configured font once.
func NewRenderer(cfg Config) (*Renderer, error) {
	def := DefaultConfig()
	if cfg.PageSize == "" {
		cfg.PageSize = def.PageSize
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = def.FontFamily
	}
	if cfg.Margin < 0 {
		return nil, fmt.Errorf("negative page margin: %v", cfg.Margin)
	}

	r := &Renderer{cfg: cfg}
	if cfg.FontPath != "" {
		font, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", cfg.FontPath, err)
		}
		r.font = font
	}
	return r, nil
}

func (r *Renderer) layout(text string, fontSize float64) (*fpdf.Fpdf, error) {
	doc := fpdf.New("P", "mm", r.cfg.PageSize, "")
	doc.SetMargins(r.cfg.Margin, r.cfg.Margin, r.cfg.Margin)
	doc.SetAutoPageBreak(true, r.cfg.Margin)
	doc.AddPage()

	if r.font != nil {
		doc.AddUTF8FontFromBytes(r.cfg.FontFamily, "", r.font)
		doc.SetFont(r.cfg.FontFamily, "", fontSize)
	} else {
		doc.SetFont(coreFont, "", fontSize)
		text = doc.UnicodeTranslatorFromDescriptor("")(text)
	}

	doc.MultiCell(0, fontSize/2.5, text, "", "L", false)

	if doc.Err() {
		return nil, fmt.Errorf("failed to lay out text at %.1fpt: %w", fontSize, doc.Error())
	}
	return doc, nil
}

// CountPages implements pagefit.Oracle.
func (r *Renderer) CountPages(ctx context.Context, text string, fontSize float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	doc, err := r.layout(text, fontSize)
	if err != nil {
		return 0, err
	}
	return doc.PageNo(), nil
}

// Render writes the final document at fontSize to w and returns its page count.
func (r *Renderer) Render(w io.Writer, text string, fontSize float64) (int, error) {
	doc, err := r.layout(text, fontSize)
	if err != nil {
		return 0, err
	}
	pages := doc.PageNo()
	if err := doc.Output(w); err != nil {
		return 0, fmt.Errorf("failed to write pdf: %w", err)
	}
	return pages, nil
}
