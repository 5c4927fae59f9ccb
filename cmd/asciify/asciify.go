// Command asciify converts an image to ASCII art using a brightness
// table built by compute_tables.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/cmd/internal/cliutil"
)

func main() {
	cliutil.LoadEnv()
	cliutil.InitDisplay()

	inputFile := flag.String("input", "",
		"Path to the input image file (required)")
	tableFile := flag.String("table", cliutil.Getenv(cliutil.EnvTable, img2ascii.DefaultTableFileName),
		"Path to the brightness table")
	scale := flag.Int("scale", img2ascii.DefaultScale,
		"Scale factor: higher values sample smaller blocks and print more characters")
	targetWidth := flag.Int("width", 0,
		"Resize the input to this many output columns (0 keeps the image size)")
	outputFile := flag.String("output", "",
		"Path to save the output (if not specified, prints to stdout)")
	pngFile := flag.String("png", "",
		"Also render the result with the table's glyph bitmaps into this PNG")
	tlevel := flag.String("trace", cliutil.Getenv(cliutil.EnvTrace, "Error"),
		"Trace level [Debug|Info|Error]")
	flag.Parse()

	if *inputFile == "" {
		cliutil.Usage("Please provide the image using the -input flag", flag.PrintDefaults)
	}
	if err := cliutil.SetupTracing(*tlevel); err != nil {
		cliutil.Fail(err)
	}
	tracer := tracing.Select(cliutil.TraceKey)

	begin := time.Now()
	r := img2ascii.NewRenderer(
		img2ascii.WithScale(*scale),
		img2ascii.WithTargetWidth(*targetWidth),
	)
	if err := r.LoadTable(*tableFile); err != nil {
		cliutil.Fail(err)
	}
	grid, err := r.RenderFile(*inputFile)
	if err != nil {
		cliutil.Fail(err)
	}
	tracer.Infof("Rendered %d x %d characters in %v", grid.Cols(), grid.Rows(), time.Since(begin))

	if *outputFile != "" {
		if err := grid.Save(*outputFile); err != nil {
			cliutil.Fail(err)
		}
		pterm.Success.Printfln("Output written to %s", *outputFile)
	} else if _, err := grid.WriteTo(os.Stdout); err != nil {
		cliutil.Fail(err)
	}

	if *pngFile != "" {
		if err := img2ascii.SavePreview(grid, r.Table(), *pngFile); err != nil {
			cliutil.Fail(err)
		}
		pterm.Success.Printfln("PNG output written to %s", *pngFile)
	}
}
