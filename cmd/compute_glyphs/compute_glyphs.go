// Command compute_glyphs renders the displayable Latin-1 characters of a
// TrueType font into one bitmap per character, plus the glyph index
// (meta.txt) that compute_tables reads.
package main

import (
	"flag"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/cmd/internal/cliutil"
)

func main() {
	cliutil.LoadEnv()
	cliutil.InitDisplay()

	fontFile := flag.String("font", cliutil.Getenv(cliutil.EnvFont, ""),
		"Path to a TrueType font, or a system font name (required)")
	fontSize := flag.Int("size", 20, "Font size in pixels")
	cellSize := flag.Int("cell", 20, "Side length of each glyph bitmap")
	outDir := flag.String("output", "font-bitmaps", "Directory to write glyph bitmaps to")
	tlevel := flag.String("trace", cliutil.Getenv(cliutil.EnvTrace, "Info"),
		"Trace level [Debug|Info|Error]")
	flag.Parse()

	if *fontFile == "" {
		cliutil.Usage("Please provide the font using the -font flag", flag.PrintDefaults)
	}
	if err := cliutil.SetupTracing(*tlevel); err != nil {
		cliutil.Fail(err)
	}
	tracing.Select(cliutil.TraceKey).Infof("Trace level is %s", *tlevel)

	renderer, err := img2ascii.LoadFontRenderer(*fontFile, *fontSize)
	if err != nil {
		cliutil.Fail(err)
	}
	pterm.Info.Printfln("Rendering %s at %dpx into %dx%d cells",
		renderer.Name(), *fontSize, *cellSize, *cellSize)

	index, err := img2ascii.BuildCharset(renderer, *fontSize, *cellSize, *outDir)
	if err != nil {
		cliutil.Fail(err)
	}
	pterm.Success.Printfln("Wrote %d glyphs to %s", index.Len(), *outDir)
}
