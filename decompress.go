package tshcqc

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var signatures = []struct {
	dt  DataType
	sig []byte
}{
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeZ, []byte{0x1f, 0x9d}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},
}

// DetectDataType inspects the leading bytes of a stream. Streams shorter than
// the longest signature are treated as uncompressed.
func DetectDataType(r io.Reader) (DataType, error) {
	head := make([]byte, 6)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return DataTypeInvalid, err
	}
	head = head[:n]

	for _, s := range signatures {
		if bytes.HasPrefix(head, s.sig) {
			return s.dt, nil
		}
	}

	return DataTypeNoCompression, nil
}

// OpenMaybeCompressed opens a text input such as a command-line usage log or
// a VCF, decompressing it on the fly when its signature says it is gzip,
// zip, xz, zlib or bzip2. Closing the returned reader closes the file.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dt, err := DetectDataType(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	var r io.Reader
	switch dt {
	case DataTypeGzip:
		r, err = gzip.NewReader(f)
	case DataTypeZip:
		// Only the first entry of an archive is read
		zr := zipstream.NewReader(f)
		if _, err = zr.Next(); err == nil {
			r = zr
		}
	case DataTypeBZip2:
		r = bzip2.NewReader(f)
	case DataTypeXZ:
		r, err = xz.NewReader(f, 0)
	case DataTypeZ:
		r, err = zlib.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	return &fileBackedReader{Reader: r, file: f}, nil
}

type fileBackedReader struct {
	io.Reader
	file *os.File
}

func (c *fileBackedReader) Close() error {
	if closer, ok := c.Reader.(io.Closer); ok {
		closer.Close()
	}

	return c.file.Close()
}
