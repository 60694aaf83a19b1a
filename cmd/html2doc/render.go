package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	html2doc "github.com/alnah/go-html2doc"
	"github.com/alnah/go-html2doc/internal/config"
	"github.com/alnah/go-html2doc/internal/storage"
)

// Sentinel errors for CLI input handling.
var (
	ErrNoInput               = errors.New("no HTML content provided")
	ErrReadInput             = errors.New("failed to read input")
	ErrBadPlaceholder        = errors.New("malformed placeholder flag")
	ErrBadTimeout            = errors.New("invalid timeout")
	ErrBadFormat             = errors.New("invalid format")
	ErrConflictingWatermarks = errors.New("watermark text and image are mutually exclusive")
)

// servicePool abstracts pool acquisition for testability.
type servicePool interface {
	Acquire(ctx context.Context) (*html2doc.Service, error)
	Release(svc *html2doc.Service)
}

// run executes one render from parsed flags. It reads inputs, renders
// through a pooled service, and stores the artifact.
func run(f *renderFlags, args []string, env *Environment, pool servicePool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := buildRequest(f, args, env)
	if err != nil {
		return err
	}

	outDir := f.output
	if outDir == "" {
		outDir = env.Config.Output.Dir
	}
	store, err := storage.NewFSStore(outDir)
	if err != nil {
		return err
	}

	svc, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer pool.Release(svc)

	start := time.Now()
	artifact, err := svc.Render(ctx, *req)
	if err != nil {
		return err
	}
	if f.verbose {
		fmt.Fprintf(env.Stderr, "Rendered %s (%d bytes) in %v\n",
			artifact.Filename, len(artifact.Bytes), time.Since(start).Round(time.Millisecond))
	}

	path, err := store.Save(artifact.Filename, artifact.Bytes)
	if err != nil {
		return err
	}
	if !f.quiet {
		fmt.Fprintln(env.Stdout, path)
	}
	return nil
}

// buildRequest assembles the render request from flags and files.
func buildRequest(f *renderFlags, args []string, env *Environment) (*html2doc.Request, error) {
	format := html2doc.Format(strings.ToLower(f.format))
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q (want pdf or docx)", ErrBadFormat, f.format)
	}

	content, err := readContent(f, args, env)
	if err != nil {
		return nil, err
	}

	header, err := readOptionalFile(f.header)
	if err != nil {
		return nil, err
	}
	footer, err := readOptionalFile(f.footer)
	if err != nil {
		return nil, err
	}

	wm, err := buildWatermark(f)
	if err != nil {
		return nil, err
	}

	placeholders, err := parsePlaceholders(f.placeholders)
	if err != nil {
		return nil, err
	}

	return &html2doc.Request{
		Header:       header,
		Content:      content,
		Footer:       footer,
		Format:       format,
		Watermark:    wm,
		Placeholders: placeholders,
		RequestID:    f.requestID,
	}, nil
}

// readContent resolves the HTML body from --content, a positional
// argument, or stdin ("-").
func readContent(f *renderFlags, args []string, env *Environment) (string, error) {
	src := f.content
	if src == "" && len(args) > 0 {
		src = args[0]
	}
	if src == "" {
		return "", ErrNoInput
	}
	if src == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(src) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadInput, src, err)
	}
	return string(data), nil
}

// readOptionalFile reads a fragment file, returning "" for no path.
func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}
	return string(data), nil
}

// buildWatermark maps watermark flags onto the request form.
func buildWatermark(f *renderFlags) (*html2doc.Watermark, error) {
	switch {
	case f.watermarkText != "" && f.watermarkImage != "":
		return nil, ErrConflictingWatermarks
	case f.watermarkText != "":
		return &html2doc.Watermark{
			Kind: html2doc.WatermarkText,
			Text: f.watermarkText,
		}, nil
	case f.watermarkImage != "":
		data, err := os.ReadFile(f.watermarkImage) // #nosec G304 -- input path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadInput, f.watermarkImage, err)
		}
		return &html2doc.Watermark{
			Kind:      html2doc.WatermarkImage,
			ImageData: base64.StdEncoding.EncodeToString(data),
		}, nil
	default:
		return nil, nil
	}
}

// buildServiceOptions merges the config file and flags into service
// options. Flags win over the config file.
func buildServiceOptions(f *renderFlags, cfg *config.Config) ([]html2doc.Option, error) {
	svcCfg := html2doc.Config{
		MaxArtifactSizeMB:      cfg.Render.MaxArtifactSizeMB,
		RenderTimeout:          time.Duration(cfg.Render.TimeoutMs) * time.Millisecond,
		FetchTimeout:           time.Duration(cfg.Render.FetchTimeoutMs) * time.Millisecond,
		MaxWatermarkTextLength: cfg.Watermark.MaxTextLength,
	}

	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q (want e.g. 30s, 2m)", ErrBadTimeout, f.timeout)
		}
		svcCfg.RenderTimeout = d
	}

	return []html2doc.Option{html2doc.WithConfig(svcCfg)}, nil
}
