package pipeline

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"marinequote/internal"
)

// DocumentKind is the declared type of an uploaded document blob.
type DocumentKind string

const (
	DocPDF  DocumentKind = "pdf"
	DocWord DocumentKind = "word"
)

// ExtractFromDocument converts a PDF or Word blob to plain text and feeds it
// through the text-mode extractor. The extracted string is treated
// identically regardless of source kind.
func ExtractFromDocument(content []byte, kind DocumentKind) ([]internal.ImportCandidate, error) {
	var (
		text string
		err  error
		src  internal.CandidateSource
	)
	switch kind {
	case DocPDF:
		text, err = pdfToText(content)
		src = internal.SourcePDF
	case DocWord:
		text, err = docxToText(content)
		src = internal.SourceWord
	default:
		return nil, fmt.Errorf("%w: %q", internal.ErrExtractionUnavailable, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrExtractionFailed, err)
	}

	out := ExtractFromText(text)
	for i := range out {
		out[i].Source = src
	}
	return out, nil
}

// ExtractFromDocumentWithFallback behaves like ExtractFromDocument, but when
// degraded mode is enabled a parse failure is replaced with a fixed
// placeholder candidate set instead of propagating, so the quoting workflow
// stays unblockable. Degraded mode is opt-in; unknown document kinds always
// propagate.
func ExtractFromDocumentWithFallback(content []byte, kind DocumentKind, degraded bool) ([]internal.ImportCandidate, error) {
	out, err := ExtractFromDocument(content, kind)
	if err == nil {
		return out, nil
	}
	if !degraded || !errors.Is(err, internal.ErrExtractionFailed) {
		return nil, err
	}
	fmt.Printf("document extraction degraded to placeholder set: %v\n", err)
	return PlaceholderCandidates(), nil
}

// PlaceholderCandidates is the fixed degraded-mode substitute batch.
func PlaceholderCandidates() []internal.ImportCandidate {
	return []internal.ImportCandidate{
		{Identifier: "135-01-003A", Name: defaultCandidateName, Quantity: 1, Note: "degraded placeholder", Source: internal.SourceFallback},
		{Identifier: "NJ313", Name: defaultCandidateName, Quantity: 1, Note: "degraded placeholder", Source: internal.SourceFallback},
		{Identifier: "M8X20", Name: defaultCandidateName, Quantity: 1, Note: "degraded placeholder", Source: internal.SourceFallback},
	}
}

func pdfToText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
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
	return sb.String(), nil
}

// docxToText unpacks word/document.xml and concatenates character data,
// emitting a newline per paragraph. Only needs to be good enough for the
// line-oriented text extractor.
func docxToText(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}
	defer doc.Close()

	dec := xml.NewDecoder(doc)
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}
