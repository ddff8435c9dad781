package ingest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip unpacks archive bytes under dest. Entries that would escape
// dest (zip-slip) are dropped.
func ExtractZip(data []byte, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	cleanDest := filepath.Clean(dest)
	for _, f := range zr.File {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := writeZipEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, rc)
	return err
}

// IngestZip extracts uploaded archive bytes to a scratch directory, then
// copies the allowed subset into inputDir.
func IngestZip(data []byte, inputDir string, rules Rules) (Summary, error) {
	tmp, err := os.MkdirTemp("", "ingest-zip-")
	if err != nil {
		return newSummary(rules), err
	}
	defer os.RemoveAll(tmp)

	if err := ExtractZip(data, tmp); err != nil {
		return newSummary(rules), err
	}
	return CopyTree(tmp, inputDir, rules)
}
