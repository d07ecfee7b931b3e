package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/sukalov/songbot/internal/catalog"
	"github.com/sukalov/songbot/internal/config"
	"github.com/sukalov/songbot/internal/logger"
	"github.com/sukalov/songbot/internal/lyrics"
	"github.com/sukalov/songbot/internal/pagefit"
	"github.com/sukalov/songbot/internal/pdf"
)

var CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"warn" env:"LOG_LEVEL"`

	Normalize NormalizeCmd `cmd:"" help:"Clean up chord-sheet lyrics"`
	PDF       PDFCmd       `cmd:"" name:"pdf" help:"Render lyrics to a one-page PDF"`
	Search    SearchCmd    `cmd:"" help:"Search the song catalog"`
}

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	warn  = color.New(color.FgYellow)
	ok    = color.New(color.FgGreen)
)

// readInput reads path, or stdin when path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// NormalizeCmd prints normalized lyrics.
type NormalizeCmd struct {
	File string `arg:"" optional:"" help:"Lyrics file (stdin if omitted)"`
}

func (c *NormalizeCmd) Run(ctx *kong.Context) error {
	raw, err := readInput(c.File)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, lyrics.Normalize(raw))
	return nil
}

// PDFCmd renders a lyrics file at the largest size that fits one page.
type PDFCmd struct {
	File      string        `arg:"" help:"Lyrics file, or - for stdin"`
	Output    string        `short:"o" required:"" help:"Output PDF path" type:"path"`
	Margin    float64       `help:"Page margin in mm (0 keeps the configured value)"`
	MinFont   float64       `help:"Smallest font size to try"`
	StartFont float64       `help:"Font size to start from"`
	Font      string        `help:"UTF-8 TrueType font file" type:"existingfile"`
	Raw       bool          `help:"Skip lyrics normalization"`
	Timeout   time.Duration `help:"Give up after this long" default:"1m"`
}

func (c *PDFCmd) Run(ctx *kong.Context) error {
	cfg, err := config.LoadOptional()
	if err != nil {
		return err
	}
	if c.Margin > 0 {
		cfg.PDF.Margin = c.Margin
	}
	if c.MinFont > 0 {
		cfg.Fit.MinFontSize = c.MinFont
	}
	if c.StartFont > 0 {
		cfg.Fit.StartFontSize = c.StartFont
	}
	if c.Font != "" {
		cfg.PDF.FontPath = c.Font
	}

	raw, err := readInput(c.File)
	if err != nil {
		return err
	}
	text := raw
	if !c.Raw {
		text = lyrics.NewService(0).Printable(raw)
	}

	renderer, err := pdf.NewRenderer(cfg.PDF)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	res, err := writePDF(runCtx, pdf.NewExporter(renderer, cfg.Fit), c.Output, text)
	if err != nil {
		return err
	}

	ok.Fprintf(ctx.Stdout, "wrote %s\n", c.Output)
	fmt.Fprintf(ctx.Stdout, "  font size: %.1f\n  pages:     %d\n  probes:    %d\n", res.FontSize, res.Pages, res.Probes)
	if !res.Fits() {
		warn.Fprintf(ctx.Stdout, "  text does not fit one page even at %.1f\n", res.FontSize)
	} else if res.HitFloor {
		warn.Fprintln(ctx.Stdout, "  minimum font size reached")
	}
	return nil
}

// writePDF exports text and writes the file only once the export succeeded.
func writePDF(ctx context.Context, exporter *pdf.Exporter, path, text string) (pagefit.Result, error) {
	var buf bytes.Buffer
	res, err := exporter.Export(ctx, &buf, text)
	if err != nil {
		return res, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return res, nil
}

// SearchCmd lists catalog matches for a query.
type SearchCmd struct {
	Query  string `arg:"" help:"Song name"`
	Minus  bool   `help:"Also list instrumental versions"`
	Lyrics bool   `help:"Print normalized lyrics of the first match"`
}

func (c *SearchCmd) Run(ctx *kong.Context) error {
	cfg, err := config.LoadOptional()
	if err != nil {
		return err
	}
	client := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout)

	songs, err := client.Search(context.Background(), c.Query)
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		warn.Fprintln(ctx.Stdout, "nothing found")
		return nil
	}

	for i, song := range songs {
		bold.Fprintf(ctx.Stdout, "%d. %s", i+1, song.ButtonLabel())
		faint.Fprintf(ctx.Stdout, "  [%s] %s\n", song.ID, client.PlusURL(song))

		if c.Minus {
			ids, err := client.MinusVersions(context.Background(), song.ID)
			if err != nil {
				logger.Warn(fmt.Sprintf("minus versions for %s: %v", song.ID, err))
				continue
			}
			for _, id := range ids {
				fmt.Fprintf(ctx.Stdout, "   minus %s\n", client.MinusURL(id))
			}
		}
	}

	if c.Lyrics {
		fmt.Fprintln(ctx.Stdout)
		fmt.Fprintln(ctx.Stdout, lyrics.Normalize(songs[0].Text))
	}
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("songsheet"),
		kong.Description("Lyrics cleanup, one-page PDF sheets and catalog search"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logger.Setup(os.Stderr, CLI.LogLevel, "text")

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
