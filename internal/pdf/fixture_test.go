package pdf

import (
	"fmt"
	"testing"

	"github.com/a3tai/schedify/internal/testutil"
)

const registrationText = testutil.RegistrationText

var buildPDF = testutil.BuildPDF

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	return testutil.WriteFile(t, dir, name, data)
}

// fakeSource serves fixed fragments; a page listed in panics panics and a
// page listed in fails returns an error
type fakeSource struct {
	pages  [][]string
	panics map[int]bool
	fails  map[int]bool
}

func (f *fakeSource) NumPages() int {
	return len(f.pages)
}

func (f *fakeSource) PageFragments(n int) ([]string, error) {
	if f.panics[n] {
		panic("malformed content stream")
	}
	if f.fails[n] {
		return nil, fmt.Errorf("bad page %d", n)
	}
	return f.pages[n-1], nil
}

func fakeOpener(src *fakeSource) SourceOpener {
	return func([]byte) (PageSource, error) {
		return src, nil
	}
}
