// Package html2doc renders templated HTML fragments into finished,
// paginated documents: PDF via headless Chrome, or an OOXML
// word-processing document assembled block by block.
//
// # Quick Start
//
// Create a service, render a request, and close when done:
//
//	svc, err := html2doc.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	artifact, err := svc.Render(ctx, html2doc.Request{
//	    Header:  "<div>{{company}} - Confidential</div>",
//	    Content: "<div>Dear {{name}},</div>",
//	    Footer:  "<div>Page {{page}} of {{total}}</div>",
//	    Format:  html2doc.FormatDocx,
//	    Placeholders: map[string]any{
//	        "company": "ACME",
//	        "name":    "John",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(artifact.Filename, artifact.Bytes, 0644)
//
// # Rendering Pipeline
//
// Every request goes through the same stages:
//
//  1. Validation (format, watermark bounds, base64 payloads)
//  2. Sanitization of header, content, and footer HTML
//  3. Placeholder substitution of {{name}} tokens
//  4. Format dispatch: Chrome print pipeline (PDF) or block
//     extraction plus OOXML assembly (docx)
//  5. Watermark overlay, interpreted per backend
//  6. Size governor: oversized artifacts are compressed losslessly
//
// A single malformed content block never aborts the document: tables
// without rows degrade to paragraphs, unfetchable images are skipped
// with a logged warning, and a watermark that cannot be applied is
// dropped rather than failing the render.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc, err := html2doc.New(
//	    html2doc.WithTimeout(2 * time.Minute),
//	    html2doc.WithConfig(cfg),
//	    html2doc.WithLogger(logger),
//	)
//
// # Parallel Processing
//
// PDF rendering holds a browser instance per Service. For concurrent
// workloads, use ServicePool to bound the number of browser processes:
//
//	pool := html2doc.NewServicePool(4)
//	defer pool.Close()
//
//	svc, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err // pool exhausted before ctx expired
//	}
//	defer pool.Release(svc)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run.
// For containers and CI environments, set ROD_BROWSER_BIN to use a
// pre-installed binary; the sandbox is disabled automatically when
// CI=true or ROD_BROWSER_BIN is set.
//
// The docx backend has no external process dependency.
package html2doc
