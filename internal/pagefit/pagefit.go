// Package pagefit searches for the largest font size at which a text still
// renders onto a single page.
//
// The page count itself comes from an Oracle, usually a real layout engine.
// The search walks down from a starting size in fixed steps, then tries a
// bounded number of finer steps towards the floor. It never raises the size
// again and never returns an error for text that does not fit: the Result
// carries the page count and whether the floor was reached.
package pagefit

import (
	"context"
)

// Oracle reports how many pages text takes at the given font size.
// Page count must not increase as the size goes down; ties are fine.
type Oracle interface {
	CountPages(ctx context.Context, text string, fontSize float64) (int, error)
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(ctx context.Context, text string, fontSize float64) (int, error)

func (f OracleFunc) CountPages(ctx context.Context, text string, fontSize float64) (int, error) {
	return f(ctx, text, fontSize)
}

// Config controls the search.
type Config struct {
	MinFontSize       float64 // floor, never probed below
	StartFontSize     float64 // first probe
	CoarseStep        float64 // decrement of the coarse descent
	RefineStep        float64 // decrement of the refinement phase
	MaxRefineAttempts int     // probes allowed in the refinement phase
}

// DefaultConfig returns the sizes used for printable lyrics sheets.
func DefaultConfig() Config {
	return Config{
		MinFontSize:       6,
		StartFontSize:     30,
		CoarseStep:        0.5,
		RefineStep:        0.5,
		MaxRefineAttempts: 10,
	}
}

// normalized replaces steps that would keep the search from terminating.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.CoarseStep <= 0 {
		c.CoarseStep = def.CoarseStep
	}
	if c.RefineStep <= 0 {
		c.RefineStep = def.RefineStep
	}
	if c.MaxRefineAttempts < 0 {
		c.MaxRefineAttempts = 0
	}
	return c
}

// Result is the outcome of a single Fit call.
type Result struct {
	FontSize float64 `json:"font_size"`
	Pages    int     `json:"pages"`
	HitFloor bool    `json:"hit_floor"`
	Probes   int     `json:"probes"`
}

// Fits reports whether the chosen size produced a single page.
func (r Result) Fits() bool {
	return r.Pages == 1
}

// Fitter runs searches against one oracle. It holds no per-call state and is
// safe for concurrent use.
type Fitter struct {
	oracle Oracle
	cfg    Config
}

// New creates a Fitter.
func New(oracle Oracle, cfg Config) *Fitter {
	return &Fitter{oracle: oracle, cfg: cfg.normalized()}
}

// Config returns the effective configuration.
func (f *Fitter) Config() Config {
	return f.cfg
}

// Fit finds a font size at which text fits on one page, or the best attempt
// if it never does. Oracle errors are returned as is.
func (f *Fitter) Fit(ctx context.Context, text string) (Result, error) {
	var (
		cfg   = f.cfg
		size  = cfg.StartFontSize
		res   Result
		probe = func(size float64) error {
			pages, err := f.oracle.CountPages(ctx, text, size)
			if err != nil {
				return err
			}
			res.FontSize = size
			res.Pages = pages
			res.Probes++
			return nil
		}
	)

	for size > cfg.MinFontSize {
		if err := probe(size); err != nil {
			return res, err
		}
		if res.Pages == 1 {
			res.HitFloor = false
			return res, nil
		}
		size -= cfg.CoarseStep
	}

	// start at or below the floor: one probe at the floor decides
	if res.Probes == 0 {
		if err := probe(cfg.MinFontSize); err != nil {
			return res, err
		}
		res.HitFloor = true
		return res, nil
	}

	size = res.FontSize
	for attempt := 0; attempt < cfg.MaxRefineAttempts; attempt++ {
		size -= cfg.RefineStep
		if size <= cfg.MinFontSize {
			size = cfg.MinFontSize
		}
		if err := probe(size); err != nil {
			return res, err
		}
		if res.Pages == 1 || size == cfg.MinFontSize {
			break
		}
	}

	res.HitFloor = res.FontSize == cfg.MinFontSize
	return res, nil
}
