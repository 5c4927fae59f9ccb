// Command compute_tables builds a brightness table from a directory of
// labeled images, as written by compute_glyphs. With -font it renders the
// glyphs first and builds the table from them in one go.
package main

import (
	"flag"
	"path/filepath"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/cmd/internal/cliutil"
)

func main() {
	cliutil.LoadEnv()
	cliutil.InitDisplay()

	defaults := img2ascii.DefaultTableOptions()
	source := flag.String("source", "font-bitmaps",
		"Directory of labeled images; the glyph output directory with -font")
	output := flag.String("output", cliutil.Getenv(cliutil.EnvTable, img2ascii.DefaultTableFileName),
		"Path to write the table to")
	ext := flag.String("ext", defaults.Extension, "Extension of the images to read")
	precision := flag.Int("precision", defaults.Precision, "Decimal digits of brightness keys")
	meta := flag.String("meta", defaults.MetaFileName, "Name of the glyph index in the source directory")
	noScale := flag.Bool("noscale", false, "Keep raw brightness keys instead of scaling to [0,255]")
	fontFile := flag.String("font", "", "Render glyphs from this font before building the table")
	fontSize := flag.Int("size", 20, "Font size in pixels, with -font")
	cellSize := flag.Int("cell", 20, "Side length of each glyph bitmap, with -font")
	tlevel := flag.String("trace", cliutil.Getenv(cliutil.EnvTrace, "Info"),
		"Trace level [Debug|Info|Error]")
	flag.Parse()

	if err := cliutil.SetupTracing(*tlevel); err != nil {
		cliutil.Fail(err)
	}
	tracing.Select(cliutil.TraceKey).Infof("Trace level is %s", *tlevel)

	opts := img2ascii.TableOptions{
		Extension:    *ext,
		Precision:    *precision,
		MetaFileName: *meta,
		Scaling:      !*noScale,
	}

	var (
		table      *img2ascii.Table
		collisions []img2ascii.Collision
		err        error
	)
	if *fontFile != "" {
		pterm.Info.Printfln("Rendering %s into %s", filepath.Base(*fontFile), *source)
		table, collisions, err = img2ascii.TableFromFont(*fontFile, *fontSize, *cellSize,
			*source, *output, opts)
	} else {
		table, collisions, err = img2ascii.GenerateTable(*source, *output, opts)
	}
	if err != nil {
		cliutil.Fail(err)
	}

	for _, c := range collisions {
		pterm.Warning.Printfln("%s: brightness %v already taken by code %d, dropped code %d",
			c.File, c.Brightness, c.Kept, c.Dropped)
	}
	pterm.Success.Printfln("Wrote %d entries (%dx%d cells) to %s",
		table.Len(), table.Meta.CharWidth, table.Meta.CharHeight, *output)
}
