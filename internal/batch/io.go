package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const maxDocumentSize = 16 << 20

// ReadDocuments reads whitespace-separated documents from path, or from
// standard input when path is "-". Files ending in ".zst" are
// decompressed.
func ReadDocuments(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	docs, err := ParseDocuments(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return docs, nil
}

// ParseDocuments splits r on whitespace.
func ParseDocuments(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxDocumentSize)
	sc.Split(bufio.ScanWords)

	var docs []string
	for sc.Scan() {
		docs = append(docs, sc.Text())
	}
	return docs, sc.Err()
}

// WriteDocuments writes one document per line to path, or to standard
// output when path is "-". Files ending in ".zst" are compressed.
func WriteDocuments(path string, docs []string) (err error) {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		if err := writeLines(enc, docs); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	}
	return writeLines(w, docs)
}

func writeLines(w io.Writer, docs []string) error {
	bw := bufio.NewWriter(w)
	for _, d := range docs {
		if _, err := bw.WriteString(d + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
