// Package testutil builds registration PDFs for tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// RegistrationText is the text layer of a one-page certificate of registration
const RegistrationText = "REPUBLIC UNIVERSITY CERTIFICATE OF REGISTRATION " +
	"CODE DESCRIPTION SECTION SCHEDULE ROOM UNITS " +
	"CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 " +
	"CS101 INTRO TO COMPUTING A T 1:00-4:00PM ROOM 305 1.0 " +
	"IT202 WEB DESIGN C TTH 1:00-2:30PM VR2 3.0 " +
	"TOTAL UNITS 7.0 ASSESSMENT OF FEES"

// BuildPDF writes a minimal uncompressed PDF with one text line per page
func BuildPDF(pages ...string) []byte {
	var objects []string
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Title (Certificate of Registration) /Producer (schedify tests) >>",
	)

	kids := make([]string, len(pages))
	for i, text := range pages {
		pageObj := len(objects) + 1
		contentObj := pageObj + 1
		kids[i] = fmt.Sprintf("%d 0 R", pageObj)

		escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(text)
		stream := fmt.Sprintf("BT /F1 9 Tf 36 750 Td (%s) Tj ET", escaped)

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentObj),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)
	return buf.Bytes()
}

// WriteFile writes data to dir/name and returns the path
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
