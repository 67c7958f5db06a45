package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteVideoFixture creates a stand-in survey recording at path: a short
// format marker followed by filler up to size bytes. A size below the
// marker length still produces a valid file containing only the marker.
func WriteVideoFixture(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	marker := []byte("ftypisom")
	filler := size - int64(len(marker))
	if filler < 0 {
		filler = 0
	}

	var buf bytes.Buffer
	buf.Write(marker)
	buf.Write(bytes.Repeat([]byte{0x2e}, int(filler)))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
