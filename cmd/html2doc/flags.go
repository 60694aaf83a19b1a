package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
)

// renderFlags holds all flags for the render command.
type renderFlags struct {
	config     string
	initConfig string
	quiet      bool
	verbose    bool

	format  string
	content string
	header  string
	footer  string

	output    string
	requestID string
	workers   int
	timeout   string

	watermarkText  string
	watermarkImage string

	placeholders []string
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("html2doc", flag.ContinueOnError)
	f := &renderFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.initConfig, "init-config", "", "write a starter config file at PATH and exit")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")

	fs.StringVarP(&f.format, "format", "f", "pdf", "output format: pdf, docx")
	fs.StringVar(&f.content, "content", "", "HTML content file (\"-\" = stdin)")
	fs.StringVar(&f.header, "header", "", "HTML header fragment file")
	fs.StringVar(&f.footer, "footer", "", "HTML footer fragment file")

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.requestID, "request-id", "", "artifact name (default: generated UUID)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")

	fs.StringVar(&f.watermarkText, "wm-text", "", "text watermark (e.g., DRAFT)")
	fs.StringVar(&f.watermarkImage, "wm-image", "", "image watermark file")

	fs.StringArrayVarP(&f.placeholders, "placeholder", "P", nil, "placeholder value as name=value (repeatable)")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parsePlaceholders converts repeated name=value flags into the
// substitution mapping. Later repeats of a name win.
func parsePlaceholders(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q (want name=value)", ErrBadPlaceholder, pair)
		}
		values[name] = value
	}
	return values, nil
}

// printUsage writes the command usage to w.
func printUsage(w *os.File) {
	fmt.Fprint(w, `Usage: html2doc [flags]

Render templated HTML into a PDF or DOCX artifact.

Input:
  --content FILE        HTML content file ("-" = stdin, or positional arg)
  --header FILE         HTML header fragment, repeated on every page
  --footer FILE         HTML footer fragment ({{page}}/{{total}} supported)
  -f, --format FORMAT   pdf (default) or docx

Output:
  -o, --output DIR      output directory (default: current directory)
  --request-id ID       artifact basename (default: generated UUID)

Watermark:
  --wm-text TEXT        diagonal text watermark (e.g., DRAFT)
  --wm-image FILE       image watermark

Substitution:
  -P, --placeholder name=value   substitute {{name}} tokens (repeatable)

Runtime:
  -c, --config NAME     config file name or path
  --init-config PATH    write a starter config file and exit
  -t, --timeout DUR     render timeout (e.g., 30s, 2m)
  -w, --workers N       parallel browser instances (0 = auto)
  -q, --quiet           only show errors
  -v, --verbose         show detailed progress
`)
}
