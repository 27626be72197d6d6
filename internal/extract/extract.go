// Package extract converts raw resume documents into plain text.
// Libraries used: github.com/ledongthuc/pdf (PDF); DOCX is unpacked directly
// from the OOXML zip container.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxFileBytes is the hard cap on input document size.
const MaxFileBytes = 50 << 20 // 50MB

var supportedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
	".txt":  {},
	".rtf":  {},
}

var (
	ErrMissingFile = errors.New("file does not exist")
	ErrEmptyFile   = errors.New("file is empty")
	ErrTooLarge    = errors.New("file exceeds size limit")
	ErrUnsupported = errors.New("unsupported file format")
	ErrNoContent   = errors.New("no content extracted")
)

// IsSupported reports whether the filename carries a supported extension.
func IsSupported(fileName string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// FileType returns the lowercased extension without the dot.
func FileType(fileName string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
}

// File extracts cleaned plain text from the document at path.
func File(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if info.Size() > MaxFileBytes {
		return "", fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, info.Size())
	}
	if !IsSupported(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, err := FromBytes(ctx, data, path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return text, nil
}

// FromBytes extracts cleaned plain text from an in-memory payload, using the
// filename extension to pick the decoder.
func FromBytes(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var text string
	var err error
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".doc":
		text, err = extractDOC(data)
	case ".txt":
		text = string(data)
	case ".rtf":
		text = stripRTF(string(data))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(fileName))
	}
	if err != nil {
		return "", err
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", ErrNoContent
	}
	return cleaned, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// extractDOC handles legacy Word documents. Some .doc files are really OOXML
// containers or plain text with a wrong extension; genuinely binary payloads
// get a best-effort printable-text salvage.
func extractDOC(data []byte) (string, error) {
	if text, err := extractDOCX(data); err == nil {
		return text, nil
	}
	salvaged := salvagePrintable(data)
	if salvaged == "" {
		return "", fmt.Errorf("%w: legacy .doc binary", ErrUnsupported)
	}
	return salvaged, nil
}

func salvagePrintable(data []byte) string {
	var buf strings.Builder
	var run []byte
	flush := func() {
		// Runs shorter than 4 bytes are almost always binary noise.
		if len(run) >= 4 {
			buf.Write(run)
			buf.WriteByte('\n')
		}
		run = run[:0]
	}
	for _, b := range data {
		if b == '\n' || b == '\r' || b == '\t' || (b >= 0x20 && b < 0x7f) {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(buf.String())
}

var (
	rtfControl = regexp.MustCompile(`\\[a-zA-Z]+-?\d* ?`)
	rtfGroup   = regexp.MustCompile(`[{}]`)
)

func stripRTF(raw string) string {
	text := strings.ReplaceAll(raw, `\par`, "\n")
	text = rtfControl.ReplaceAllString(text, "")
	text = rtfGroup.ReplaceAllString(text, "")
	return text
}

var intraLineSpace = regexp.MustCompile(`[ \t\f\v]+`)

// CleanText normalizes line endings, collapses runs of intra-line
// whitespace, and drops blank lines while preserving line structure for the
// identity extractor.
func CleanText(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(intraLineSpace.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
