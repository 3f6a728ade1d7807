package decode

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"github.com/zaqa/backend/internal/domain"
	"github.com/zaqa/backend/internal/infrastructure/ocr"
)

// Decoder turns uploaded document bytes into text or tabular rows, dispatching
// on content type and filename. Images and scanned PDFs go through tesseract
// via the command runner.
type Decoder struct {
	runner ocr.Runner
}

// NewDecoder creates a decoder using the given command runner.
func NewDecoder(runner ocr.Runner) *Decoder {
	return &Decoder{runner: runner}
}

// Decode dispatches to the format-specific decoder. Unknown formats yield
// domain.ErrUnsupportedFormat.
func (d *Decoder) Decode(ctx context.Context, data []byte, contentType, filename string) (*domain.Decoded, error) {
	name := strings.ToLower(filename)
	mediaType := contentType
	if idx := strings.Index(mediaType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}

	switch {
	case mediaType == "application/pdf" || strings.HasSuffix(name, ".pdf"):
		return d.decodePDF(ctx, data)

	case strings.HasPrefix(mediaType, "image/"):
		return d.decodeImage(ctx, data, name)

	case mediaType == "text/csv" || mediaType == "application/csv" || strings.HasSuffix(name, ".csv"):
		return decodeCSV(data)

	case strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") ||
		mediaType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" ||
		mediaType == "application/vnd.ms-excel":
		return decodeSpreadsheet(data)

	case mediaType == "text/plain" || strings.HasSuffix(name, ".txt"):
		return &domain.Decoded{Text: string(data)}, nil

	default:
		return nil, domain.ErrUnsupportedFormat
	}
}

// decodePDF extracts the PDF text layer first; scanned PDFs without one fall
// back to rasterizing with pdftoppm and running OCR per page.
func (d *Decoder) decodePDF(ctx context.Context, data []byte) (*domain.Decoded, error) {
	text, err := pdfTextLayer(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return &domain.Decoded{Text: text}, nil
	}
	return d.ocrPDF(ctx, data)
}

// pdfTextLayer reads the embedded text layer. The pdf library panics on some
// malformed inputs, so the panic is converted into an error here.
func pdfTextLayer(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text layer: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plain text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// ocrPDF rasterizes each page with pdftoppm and OCRs the page images.
func (d *Decoder) ocrPDF(ctx context.Context, data []byte) (*domain.Decoded, error) {
	dir, err := os.MkdirTemp("", "order-pdf-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pdfPath := filepath.Join(dir, "upload.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	if _, err := d.runner.Run(ctx, "pdftoppm", "-r", "300", "-png", pdfPath, filepath.Join(dir, "page")); err != nil {
		return nil, fmt.Errorf("%w: rasterize pdf: %v", domain.ErrUpstreamUnavailable, err)
	}

	pages, err := filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		return nil, fmt.Errorf("list page images: %w", err)
	}
	sort.Strings(pages)

	var parts []string
	for _, page := range pages {
		out, err := d.runner.Run(ctx, "tesseract", page, "stdout")
		if err != nil {
			return nil, fmt.Errorf("%w: ocr page %s: %v", domain.ErrUpstreamUnavailable, filepath.Base(page), err)
		}
		parts = append(parts, string(out))
	}

	return &domain.Decoded{Text: strings.Join(parts, "\n")}, nil
}

// decodeImage writes the image to a temp file and OCRs it with tesseract.
func (d *Decoder) decodeImage(ctx context.Context, data []byte, name string) (*domain.Decoded, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".png"
	}

	tmp, err := os.CreateTemp("", "order-image-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp image: %w", err)
	}
	tmp.Close()

	out, err := d.runner.Run(ctx, "tesseract", tmp.Name(), "stdout")
	if err != nil {
		return nil, fmt.Errorf("%w: ocr image: %v", domain.ErrUpstreamUnavailable, err)
	}

	return &domain.Decoded{Text: string(out)}, nil
}

// decodeCSV parses CSV rows. The raw text rides along as a fallback for rows
// that flatten to nothing.
func decodeCSV(data []byte) (*domain.Decoded, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return &domain.Decoded{Text: string(data), Rows: rows}, nil
}

// decodeSpreadsheet reads the first sheet of an XLSX workbook.
func decodeSpreadsheet(data []byte) (*domain.Decoded, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &domain.Decoded{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return &domain.Decoded{Rows: rows}, nil
}
