// Package tesseract implements the local raster+OCR acquisition strategy:
// PDFs are rasterized page by page with pdftoppm and recognized with
// Tesseract, then the ACORD heuristics run over the recognized text. Unlike
// the cloud strategy this one gets real table-column reasoning, because the
// fuzzy table parser works on the full per-line text.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"coiscan/internal/acord"
	"coiscan/internal/backend"
	"coiscan/internal/config"
	"coiscan/internal/domain"
	"coiscan/internal/port"
)

func init() {
	backend.Register(domain.EngineTesseract, func(cfg *config.Config, store port.ObjectStorage) (port.OCRBackend, error) {
		return New(cfg, store), nil
	})
}

// minEmbeddedTextLen is the amount of text a PDF text layer must yield before
// rasterization is skipped. Scanned certificates typically have none.
const minEmbeddedTextLen = 200

// Backend implements port.OCRBackend with local tooling. Each call works in
// its own temporary directory, removed on every exit path.
type Backend struct {
	store  port.ObjectStorage
	runner Runner
	ocr    PageOCR
	ocrCfg config.OCRConfig
	table  config.TableConfig
}

// New creates a local raster+OCR acquisition strategy. store may be nil when
// documents are always passed as inline bytes.
func New(cfg *config.Config, store port.ObjectStorage) *Backend {
	return &Backend{
		store:  store,
		runner: execRunner{},
		ocr:    &gosseractOCR{language: cfg.OCR.Language, tessdataDir: cfg.OCR.TessdataDir},
		ocrCfg: cfg.OCR,
		table:  cfg.Table,
	}
}

// NewWithDeps creates a backend with explicit collaborators (for tests).
func NewWithDeps(store port.ObjectStorage, runner Runner, ocr PageOCR, ocrCfg config.OCRConfig, table config.TableConfig) *Backend {
	return &Backend{store: store, runner: runner, ocr: ocr, ocrCfg: ocrCfg, table: table}
}

func (b *Backend) Acquire(ctx context.Context, input port.AcquireInput) (*domain.OCRResult, error) {
	data, ext, err := b.resolveDocument(ctx, input)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "coi-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		// Cleanup failure cannot affect the returned fields; log and move on.
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			log.Printf("tesseract.Backend: removing temp dir %q: %v", tmpDir, rmErr)
		}
	}()

	if ext == "" {
		ext = ".bin"
	}
	inputPath := filepath.Join(tmpDir, "input"+ext)
	if err := os.WriteFile(inputPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing input file: %w", err)
	}

	fullText, pages, err := b.recognize(ctx, tmpDir, inputPath, ext)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(fullText) == "" {
		return nil, fmt.Errorf("ocr produced empty text: %w", domain.ErrNoExtractableText)
	}

	opts := acord.TableParseOptions{
		HeaderSimilarityMin: b.table.HeaderSimilarityMin,
		MinPlausibleAmount:  b.table.MinPlausibleAmount,
	}
	fields := acord.Assemble(acord.ParseSections(fullText, opts), acord.ScanLabels(fullText))

	return &domain.OCRResult{
		Fields:     fields,
		Confidence: acord.Confidence(fields),
		Raw: domain.RawPayload{
			RequestID: uuid.New(),
			Engine:    domain.EngineTesseract,
			Bucket:    input.Bucket,
			Key:       input.Key,
			Pages:     pages,
			FullText:  fullText,
		},
	}, nil
}

func (b *Backend) resolveDocument(ctx context.Context, input port.AcquireInput) ([]byte, string, error) {
	switch {
	case input.HasBytes():
		return input.Bytes, strings.ToLower(filepath.Ext(input.Filename)), nil
	case input.HasReference():
		if b.store == nil {
			return nil, "", fmt.Errorf("no storage client configured: %w", domain.ErrMissingReference)
		}
		data, err := b.store.Download(ctx, input.Bucket, input.Key)
		if err != nil {
			return nil, "", fmt.Errorf("downloading document: %w", err)
		}
		return data, strings.ToLower(filepath.Ext(input.Key)), nil
	default:
		return nil, "", domain.ErrMissingReference
	}
}

// Image formats Tesseract accepts directly. Unknown extensions (including the
// .bin fallback for untyped bytes) are still attempted as images.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".tif": true, ".tiff": true, ".bmp": true, ".webp": true,
}

// recognize turns the input file into text. PDFs try the embedded text layer
// first, then rasterize; anything else is treated as a single page image.
func (b *Backend) recognize(ctx context.Context, tmpDir, inputPath, ext string) (string, int, error) {
	if ext != ".pdf" {
		if ext != "" && ext != ".bin" && !imageExts[ext] {
			return "", 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, ext)
		}
		text, err := b.ocr.Recognize(ctx, inputPath)
		if err != nil {
			return "", 0, fmt.Errorf("recognizing image: %w", err)
		}
		return text, 1, nil
	}

	if text, pages, ok := embeddedPDFText(inputPath, b.ocrCfg.MaxPages); ok {
		return text, pages, nil
	}

	imagePaths, err := b.rasterizePDF(ctx, tmpDir, inputPath)
	if err != nil {
		return "", 0, err
	}

	var sb strings.Builder
	for _, img := range imagePaths {
		text, err := b.ocr.Recognize(ctx, img)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", 0, err
			}
			// Unreadable page: contributes no text, pipeline continues.
			log.Printf("tesseract.Backend: page %s unreadable: %v", filepath.Base(img), err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), len(imagePaths), nil
}

// embeddedPDFText extracts the PDF's text layer when it has a substantial
// one, skipping rasterization entirely. Page text is reassembled in page
// order; unreadable pages are skipped.
func embeddedPDFText(path string, maxPages int) (string, int, bool) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, false
	}
	defer func() { _ = f.Close() }()

	pages := r.NumPage()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := sb.String()
	if len(strings.TrimSpace(text)) < minEmbeddedTextLen {
		return "", 0, false
	}
	return text, pages, true
}

var pageNumRE = regexp.MustCompile(`-(\d+)\.png$`)

// rasterizePDF renders the capped page range to PNGs via pdftoppm and
// returns their paths in page order.
func (b *Backend) rasterizePDF(ctx context.Context, tmpDir, inputPath string) ([]string, error) {
	maxPages := b.ocrCfg.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	lastPage := maxPages
	if count, err := api.PageCountFile(inputPath); err != nil {
		log.Printf("tesseract.Backend: page count failed, rendering up to %d pages: %v", maxPages, err)
	} else if count < lastPage {
		lastPage = count
	}

	prefix := filepath.Join(tmpDir, "page")
	args := []string{
		"-r", strconv.Itoa(b.ocrCfg.RasterDPI),
		"-png",
		"-f", "1",
		"-l", strconv.Itoa(lastPage),
		inputPath, prefix,
	}
	if _, errb, err := b.runner.Run(ctx, b.ocrCfg.Pdftoppm, args...); err != nil {
		return nil, fmt.Errorf("pdftoppm: %s: %w", strings.TrimSpace(string(errb)), err)
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Slice(matches, func(i, j int) bool {
		return pageNum(matches[i]) < pageNum(matches[j])
	})
	if len(matches) > maxPages {
		matches = matches[:maxPages]
	}
	if len(matches) == 0 {
		return nil, domain.ErrNoPagesRendered
	}
	return matches, nil
}

func pageNum(path string) int {
	m := pageNumRE.FindStringSubmatch(path)
	if len(m) != 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
