package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhillyerd/enmime"

	"marinequote/internal"
)

// ExtractFromEmailRaw reads a raw RFC-2822 inquiry message: the plain-text
// body and any HTML tables go through the text/HTML extractors, XLSX and PDF
// attachments through their own parsers. A broken attachment is skipped, not
// fatal. Result is deduplicated by identifier across all parts.
func ExtractFromEmailRaw(raw []byte) ([]internal.ImportCandidate, string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", internal.ErrExtractionFailed, err)
	}

	items := []internal.ImportCandidate{}
	if env.Text != "" {
		items = append(items, ExtractFromText(env.Text)...)
	}
	if env.HTML != "" {
		items = append(items, ExtractFromHTML(env.HTML)...)
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		lower := strings.ToLower(filename)

		var extra []internal.ImportCandidate
		switch {
		case strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
			extra, err = ExtractFromWorkbook(att.Content)
		case strings.HasSuffix(lower, ".pdf"):
			extra, err = ExtractFromDocument(att.Content, DocPDF)
		case strings.HasSuffix(lower, ".docx") || strings.HasSuffix(lower, ".doc"):
			extra, err = ExtractFromDocument(att.Content, DocWord)
		default:
			continue
		}
		if err != nil {
			fmt.Printf("attachment %s skipped: %v\n", filename, err)
			continue
		}
		for i := range extra {
			extra[i].Note = filename + " " + extra[i].Note
		}
		items = append(items, extra...)
	}

	return DedupeCandidates(items), env.GetHeader("Subject"), nil
}
