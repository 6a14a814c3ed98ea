package vcf

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/semaphore"
)

// Counter counts the data records (non-header lines) of a VCF.
type Counter interface {
	Count(ctx context.Context, path string) (int, error)
}

// LineCounter counts records in-process, decoding by filename suffix.
type LineCounter struct{}

// Count implements Counter.
func (LineCounter) Count(ctx context.Context, path string) (int, error) {
	rc, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n, err := countRecords(rc)
	if err != nil {
		return 0, fmt.Errorf("count records in %s: %w", path, err)
	}
	return n, nil
}

// DefaultMaxProcesses bounds concurrent bcftools invocations when no
// explicit limit is given.
const DefaultMaxProcesses = 4

// BcftoolsCounter counts records with `bcftools view -H`. At most the
// configured number of bcftools processes run at once.
type BcftoolsCounter struct {
	binary string
	sem    *semaphore.Weighted
}

// NewBcftoolsCounter creates a counter that runs binary (default
// "bcftools") with at most maxProcs concurrent invocations.
func NewBcftoolsCounter(binary string, maxProcs int) *BcftoolsCounter {
	if binary == "" {
		binary = "bcftools"
	}
	if maxProcs <= 0 {
		maxProcs = DefaultMaxProcesses
	}
	return &BcftoolsCounter{
		binary: binary,
		sem:    semaphore.NewWeighted(int64(maxProcs)),
	}
}

// Count implements Counter. A nonzero exit status is an error.
func (c *BcftoolsCounter) Count(ctx context.Context, path string) (int, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer c.sem.Release(1)

	cmd := exec.CommandContext(ctx, c.binary, "view", "-H", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("%s stdout: %w", c.binary, err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", c.binary, err)
	}

	n, countErr := countDrained(out)
	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return 0, fmt.Errorf("%s view -H %s: %w: %s", c.binary, path, err, msg)
		}
		return 0, fmt.Errorf("%s view -H %s: %w", c.binary, path, err)
	}
	if countErr != nil {
		return 0, fmt.Errorf("read %s output: %w", c.binary, countErr)
	}
	return n, nil
}

// countRecords counts lines that are neither blank nor headers.
func countRecords(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	n := 0
	atLineStart := true
	for {
		chunk, err := br.ReadSlice('\n')
		if len(chunk) > 0 {
			if atLineStart && chunk[0] != '#' && chunk[0] != '\n' && !isCRLF(chunk) {
				n++
			}
			atLineStart = chunk[len(chunk)-1] == '\n'
		}
		if err != nil {
			if err == bufio.ErrBufferFull {
				continue
			}
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
	}
}

// countDrained counts records like countRecords and, on error, reads r to
// the end so a child process writing into it is not left blocked.
func countDrained(r io.Reader) (int, error) {
	n, err := countRecords(r)
	if err != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	return n, err
}

func isCRLF(b []byte) bool {
	return len(b) == 2 && b[0] == '\r' && b[1] == '\n'
}
