package vcf

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/xi2/xz"
)

// Compression identifies how a VCF file is encoded on disk.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionXZ
	CompressionBzip2
)

// DetectCompression picks a decoder from the filename suffix only. File
// content is never sniffed, so a plain-text file named *.gz fails to decode.
func DetectCompression(path string) Compression {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".bgz"):
		return CompressionGzip
	case strings.HasSuffix(lower, ".xz"):
		return CompressionXZ
	case strings.HasSuffix(lower, ".bz2"):
		return CompressionBzip2
	default:
		return CompressionNone
	}
}

// decodedFile is an opened, possibly decompressed VCF stream.
type decodedFile struct {
	io.Reader
	file *os.File
	gz   *gzip.Reader
}

func (d *decodedFile) Close() error {
	if d.gz != nil {
		d.gz.Close()
	}
	return d.file.Close()
}

// Open opens path and wraps it in the decoder chosen by DetectCompression.
// Gzip input may be multi-member, which covers bgzip output.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	d := &decodedFile{Reader: file, file: file}
	switch DetectCompression(path) {
	case CompressionGzip:
		d.gz, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		d.Reader = d.gz
	case CompressionXZ:
		xr, err := xz.NewReader(file, 0)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create xz reader: %w", err)
		}
		d.Reader = xr
	case CompressionBzip2:
		d.Reader = bzip2.NewReader(file)
	}

	return d, nil
}
