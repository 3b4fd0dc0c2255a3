package pipeline

import (
	"fmt"
	"os"

	"marinequote/internal"
)

// ExtractFromInput dispatches a one-off extraction by declared input type.
// For text and html the input is the content itself; for workbook, pdf,
// word and eml it is a file path.
func ExtractFromInput(inputType, input string) ([]internal.ImportCandidate, error) {
	switch inputType {
	case "text":
		return ExtractFromText(input), nil
	case "html":
		return ExtractFromHTML(input), nil
	case "xlsx":
		blob, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return ExtractFromWorkbook(blob)
	case "pdf", "word":
		blob, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return ExtractFromDocument(blob, DocumentKind(inputType))
	case "eml":
		blob, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		items, _, err := ExtractFromEmailRaw(blob)
		return items, err
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}
