package compress

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"time"
)

// TarReader реализует io.ReadCloser для чтения файла из TAR архива.
type TarReader struct {
	current io.Reader
	eof     bool
}

// NewTarReader создает новый TarReader, находя первый файл fileName в архиве.
func NewTarReader(r io.Reader, fileName string) (*TarReader, error) {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Typeflag == tar.TypeReg && matches(header.Name, fileName) {
			return &TarReader{current: tr}, nil
		}
	}

	return nil, fmt.Errorf("%s не найден в TAR архиве", fileName)
}

// Read читает данные из текущего файла.
func (t *TarReader) Read(p []byte) (int, error) {
	if t.eof {
		return 0, io.EOF
	}
	n, err := t.current.Read(p)
	if err == io.EOF {
		t.eof = true
	}
	return n, err
}

// Close завершает чтение.
func (t *TarReader) Close() error {
	return nil
}

// TarWriter буферизует содержимое, так как заголовок TAR требует размер файла.
type TarWriter struct {
	w        io.Writer
	fileName string
	buf      bytes.Buffer
	modTime  time.Time
}

func NewTarWriter(w io.Writer, fileName string) *TarWriter {
	return &TarWriter{w: w, fileName: fileName, modTime: time.Now()}
}

func (t *TarWriter) Write(p []byte) (int, error) {
	return t.buf.Write(p)
}

// Close записывает единственный файл и завершает архив.
func (t *TarWriter) Close() error {
	tw := tar.NewWriter(t.w)
	hdr := &tar.Header{
		Name:    t.fileName,
		Mode:    0o644,
		Size:    int64(t.buf.Len()),
		ModTime: t.modTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := tw.Write(t.buf.Bytes()); err != nil {
		return err
	}
	return tw.Close()
}
