package extract

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"
)

const (
	MIMETypePDF = "application/pdf"

	// DefaultMaxBytes matches the upload limit of the web front end.
	DefaultMaxBytes = 10 << 20
)

var pdfMagic = []byte("%PDF-")

// Document is an uploaded file.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Error is returned whenever a document's text cannot be obtained. Its
// message is meant to be shown to users verbatim.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Unwrap() error { return e.Err }

// OCR reads text from a document that has no extractable text layer.
type OCR interface {
	ExtractText(ctx context.Context, mimeType string, data []byte) (string, error)
}

type Extractor struct {
	maxBytes int64
	ocr      OCR
}

// New returns an Extractor. ocr may be nil, in which case scanned documents
// without a text layer fail with an *Error.
func New(maxBytes int64, ocr OCR) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Extractor{maxBytes: maxBytes, ocr: ocr}
}

// Extract returns the document's text.
func (x *Extractor) Extract(ctx context.Context, doc Document) (string, error) {
	if len(doc.Data) == 0 {
		return "", &Error{Reason: "The uploaded file is empty."}
	}
	if int64(len(doc.Data)) > x.maxBytes {
		return "", &Error{Reason: fmt.Sprintf("The uploaded file is too large (limit %d MB).", x.maxBytes>>20)}
	}
	if !isPDF(doc.Data) {
		return "", &Error{Reason: "Unsupported file type. Please upload a PDF document."}
	}

	text, err := pdfText(doc.Data)
	if err != nil {
		log.Printf("extract: local text extraction of %q failed: %v", doc.Name, err)
		if x.ocr == nil {
			return "", &Error{Reason: "Could not read the PDF document.", Err: err}
		}
	}
	if strings.TrimSpace(text) == "" && x.ocr != nil {
		pages, _ := PageCount(doc.Data)
		log.Printf("extract: %q has no text layer (%d pages), falling back to OCR", doc.Name, pages)
		text, err = x.ocr.ExtractText(ctx, MIMETypePDF, doc.Data)
		if err != nil {
			return "", &Error{Reason: "Text extraction failed. Please try another document.", Err: errors.Wrap(err, "ocr")}
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &Error{Reason: "No text could be extracted from the document."}
	}
	return text, nil
}

func isPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), pdfMagic)
}
