//go:build e2e && unix

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// CreateTestWorkspace creates an isolated temp directory for one test
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "pdfgrip-e2e-*")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(dir, ".config"), 0755); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	tf.workspace = dir
	return dir, nil
}

// CreateTestPDF writes a minimal but structurally valid PDF with the
// given number of letter-sized pages, each carrying one line of text
func (tf *TUITestFramework) CreateTestPDF(name string, pageCount int) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("no workspace, call CreateTestWorkspace first")
	}
	path := filepath.Join(tf.workspace, name)
	if err := os.WriteFile(path, buildPDF(pageCount), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// buildPDF assembles a PDF by hand, tracking byte offsets so the xref
// table is exact. Object layout: catalog, page tree, pageCount page
// objects, pageCount content streams, one shared font.
func buildPDF(pageCount int) []byte {
	var buf bytes.Buffer
	var offsets []int

	addObj := func(num int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	firstPage := 3
	firstContent := firstPage + pageCount
	fontObj := firstContent + pageCount

	kids := ""
	for i := 0; i < pageCount; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", firstPage+i)
	}

	addObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	addObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pageCount))

	for i := 0; i < pageCount; i++ {
		addObj(firstPage+i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, firstContent+i))
	}

	for i := 0; i < pageCount; i++ {
		content := fmt.Sprintf("BT /F1 24 Tf 72 700 Td (Page %d) Tj ET", i+1)
		addObj(firstContent+i, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	addObj(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefStart)

	return buf.Bytes()
}
