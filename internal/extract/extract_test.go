package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsSupported(t *testing.T) {
	for _, name := range []string{"a.pdf", "b.DOCX", "c.doc", "d.txt", "e.rtf"} {
		if !IsSupported(name) {
			t.Fatalf("IsSupported(%q) = false", name)
		}
	}
	for _, name := range []string{"a.png", "noext", "f.pdf.zip"} {
		if IsSupported(name) {
			t.Fatalf("IsSupported(%q) = true", name)
		}
	}
}

func TestFileType(t *testing.T) {
	if got := FileType("Resume.PDF"); got != "pdf" {
		t.Fatalf("FileType = %q, want pdf", got)
	}
}

func TestFilePlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	content := "John Doe\r\n\r\njohn@example.com\t+1-555-123-4567\r\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	text, err := File(context.Background(), path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	want := "John Doe\njohn@example.com +1-555-123-4567"
	if text != want {
		t.Fatalf("File = %q, want %q", text, want)
	}
}

func TestFileMissing(t *testing.T) {
	_, err := File(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("err = %v, want ErrMissingFile", err)
	}
}

func TestFileEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := File(context.Background(), path)
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("err = %v, want ErrEmptyFile", err)
	}
}

func TestFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("binary"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := File(context.Background(), path)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestFromBytesWhitespaceOnly(t *testing.T) {
	_, err := FromBytes(context.Background(), []byte("  \n\t\n  "), "blank.txt")
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestFromBytesDocx(t *testing.T) {
	xml := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` +
		`<w:p><w:r><w:t>John Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>john@example.com</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := buildDocx(t, xml)

	text, err := FromBytes(context.Background(), data, "resume.docx")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	want := "John Doe\njohn@example.com"
	if text != want {
		t.Fatalf("FromBytes = %q, want %q", text, want)
	}
}

func TestFromBytesDocRenamedDocx(t *testing.T) {
	xml := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t>Jane Smith</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, xml)

	text, err := FromBytes(context.Background(), data, "resume.doc")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if text != "Jane Smith" {
		t.Fatalf("FromBytes = %q, want Jane Smith", text)
	}
}

func TestFromBytesDocSalvagesPrintableRuns(t *testing.T) {
	data := append([]byte{0x00, 0x01, 0x02}, []byte("John Doe resume text")...)
	data = append(data, 0x00, 0x7f, 0x03)
	data = append(data, []byte("ab")...) // too short, dropped as noise

	text, err := FromBytes(context.Background(), data, "legacy.doc")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if text != "John Doe resume text" {
		t.Fatalf("FromBytes = %q", text)
	}
}

func TestFromBytesRTF(t *testing.T) {
	rtf := `{\rtf1\ansi {\b John Doe}\par john@example.com\par }`
	text, err := FromBytes(context.Background(), []byte(rtf), "resume.rtf")
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !strings.Contains(text, "John Doe") || !strings.Contains(text, "john@example.com") {
		t.Fatalf("FromBytes = %q", text)
	}
}

func TestCleanTextPreservesLineStructure(t *testing.T) {
	raw := "Resume\r\n\r\n  John   Doe \r\nline   three\n\n"
	want := "Resume\nJohn Doe\nline three"
	if got := CleanText(raw); got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}
