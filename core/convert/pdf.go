package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/siherrmann/paperrag/helper"
)

// Converter turns raw uploaded document bytes into markdown-like text.
// Implementations are external collaborators of the pipeline: failures
// surface as ConversionFailed and are never retried.
type Converter interface {
	Convert(data []byte) (string, error)
}

// PDFConverter extracts the text of a PDF, one line per text row with
// pages separated by blank lines, so paragraph structure survives for
// the chunker.
type PDFConverter struct{}

// NewPDFConverter creates a new PDF converter
func NewPDFConverter() *PDFConverter {
	return &PDFConverter{}
}

// Convert extracts text from PDF bytes
func (c *PDFConverter) Convert(data []byte) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = helper.NewKindError(helper.KindConversionFailed, "convert pdf", fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	if len(data) == 0 {
		return "", helper.NewKindError(helper.KindConversionFailed, "convert pdf", fmt.Errorf("empty document"))
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", helper.NewKindError(helper.KindConversionFailed, "convert pdf", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			// Pages without extractable text (scans, figures) are skipped.
			continue
		}

		for _, row := range rows {
			var line strings.Builder
			for _, word := range row.Content {
				if line.Len() > 0 && !strings.HasPrefix(word.S, " ") {
					line.WriteString(" ")
				}
				line.WriteString(word.S)
			}
			if strings.TrimSpace(line.String()) != "" {
				sb.WriteString(line.String())
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	text = sb.String()
	if strings.TrimSpace(text) == "" {
		return "", helper.NewKindError(helper.KindConversionFailed, "convert pdf", fmt.Errorf("no extractable text"))
	}

	return text, nil
}
