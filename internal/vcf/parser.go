package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MinFields is the number of leading VCF columns the parser needs:
// CHROM, POS, ID, REF and ALT. Columns beyond the fifth are ignored.
const MinFields = 5

// Parser streams variants from a VCF file.
type Parser struct {
	reader     *bufio.Reader
	closer     io.Closer
	lineNumber int
	header     []string
	eof        bool
}

// NewParser creates a new VCF parser for the given file. The decoder is
// chosen from the filename suffix (see DetectCompression).
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	rc, err := Open(path)
	if err != nil {
		return nil, err
	}

	p := NewParserFromReader(rc)
	p.closer = rc
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
	}
}

// Next reads the next variant from the VCF file.
// Returns nil, nil when there are no more variants. Header lines are
// collected and skipped. A data line that cannot be parsed yields a
// *ParseError; the parser stays usable and the caller may keep reading.
func (p *Parser) Next() (*Variant, error) {
	for !p.eof {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, fmt.Errorf("read variant line: %w", err)
			}
			p.eof = true
			if line == "" {
				break
			}
		}
		p.lineNumber++

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] == '#' {
			p.header = append(p.header, line)
			continue
		}

		return p.parseLine(line)
	}
	return nil, nil
}

// parseLine parses a single VCF data line into a Variant.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.SplitN(line, "\t", MinFields+1)
	if len(fields) < MinFields {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", MinFields, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 1 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	return &Variant{
		Chrom: fields[0],
		Pos:   pos,
		ID:    fields[2],
		Ref:   fields[3],
		Alt:   fields[4],
	}, nil
}

// Header returns the header lines seen so far.
func (p *Parser) Header() []string {
	return p.header
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and the underlying file, if any.
func (p *Parser) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
