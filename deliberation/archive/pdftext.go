package archive

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractText renders the plain-text content of a PDF byte stream, page by
// page, for backends whose adapter reports HasNativePDF(model) == false
// (§4.1: "otherwise the AttachmentPipeline must substitute extracted text
// before the call").
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var out bytes.Buffer
	total := reader.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			fmt.Fprintf(&out, "--- page %d (extraction failed: %v) ---\n", pageNum, err)
			continue
		}
		out.WriteString(text)
		out.WriteString("\n")
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("no extractable text in %d page(s)", total)
	}
	return out.String(), nil
}
