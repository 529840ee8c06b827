package extract

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Per-format bounds on extraction work.
const (
	pdfMaxPages   = 5
	sheetMaxCount = 3
	sheetMaxRows  = 100
	csvMaxRows    = 1001
)

func matchPDF(ext, mediaType string) bool {
	return mediaType == "application/pdf" || ext == ".pdf"
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("extract: open pdf: %w", err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages > pdfMaxPages {
		pages = pdfMaxPages
	}
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func matchWord(ext, mediaType string) bool {
	return mediaType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		mediaType == "application/msword" ||
		ext == ".docx" || ext == ".doc"
}

// extractWord concatenates all paragraph text. Legacy .doc files are
// not valid OOXML, so they fail parsing and degrade to an empty sample.
func extractWord(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("extract: open word: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("extract: stat word: %w", err)
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("extract: parse word: %w", err)
	}

	var parts []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			parts = append(parts, p.String())
		}
	}
	return strings.Join(parts, "\n"), nil
}

func matchJSON(ext, mediaType string) bool {
	return mediaType == "application/json" || ext == ".json"
}

// extractJSON re-serializes parsed JSON to a flat string; files that do
// not parse fall back to a plain capped read.
func extractJSON(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract: read json: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return readCapped(path)
	}
	flat, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("extract: flatten json: %w", err)
	}
	return string(flat), nil
}

func matchSpreadsheet(ext, mediaType string) bool {
	return mediaType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" ||
		mediaType == "application/vnd.ms-excel" ||
		ext == ".xlsx" || ext == ".xls"
}

func extractSpreadsheet(path string) (string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("extract: open spreadsheet: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) > sheetMaxCount {
		sheets = sheets[:sheetMaxCount]
	}
	var parts []string
	for _, sheet := range sheets {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(rows) > sheetMaxRows {
			rows = rows[:sheetMaxRows]
		}
		for _, row := range rows {
			for _, cell := range row {
				if cell != "" {
					parts = append(parts, cell)
				}
			}
		}
	}
	return strings.Join(parts, " "), nil
}

func matchCSV(ext, mediaType string) bool {
	return mediaType == "text/csv" || ext == ".csv"
}

func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("extract: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows allowed
	var parts []string
	for i := 0; i < csvMaxRows; i++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract: read csv: %w", err)
		}
		parts = append(parts, row...)
	}
	return strings.Join(parts, " "), nil
}

// sourceExtensions are treated as raw text regardless of media type.
var sourceExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".html": {}, ".css": {}, ".xml": {},
	".yaml": {}, ".yml": {}, ".md": {}, ".rst": {}, ".txt": {}, ".log": {},
}

func matchText(ext, mediaType string) bool {
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	_, ok := sourceExtensions[ext]
	return ok
}

// matchReadable is the last resort: any media type hinting at textual
// or structured content gets a raw capped read.
func matchReadable(_, mediaType string) bool {
	if mediaType == "" {
		return false
	}
	for _, hint := range []string{"text", "xml", "json", "javascript", "css"} {
		if strings.Contains(mediaType, hint) {
			return true
		}
	}
	return false
}
