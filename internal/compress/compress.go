package compress

import (
	"fmt"
	"io"
)

const (
	Zip = "zip"
	Tar = "tar"
)

// NewWriter returns a single-file archive writer of the given kind.
func NewWriter(kind string, w io.Writer, fileName string) (io.WriteCloser, error) {
	switch kind {
	case Zip:
		return NewZipWriter(w, fileName)
	case Tar:
		return NewTarWriter(w, fileName), nil
	default:
		return nil, fmt.Errorf("unsupported archive type %q", kind)
	}
}

// NewReader opens fileName inside an archive of the given kind.
func NewReader(kind string, r io.Reader, fileName string) (io.ReadCloser, error) {
	switch kind {
	case Zip:
		return NewZipReader(r, fileName)
	case Tar:
		return NewTarReader(r, fileName)
	default:
		return nil, fmt.Errorf("unsupported archive type %q", kind)
	}
}

func ContentType(kind string) string {
	if kind == Tar {
		return "application/x-tar"
	}
	return "application/zip"
}
