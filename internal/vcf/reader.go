package vcf

import (
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// Reader builds VariantSets from VCF files. It never fails: absent files
// yield an empty set with StatusMissing and unreadable files an empty set
// with StatusFailed, so one bad input cannot block a report.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a reader that logs nothing.
func NewReader() *Reader {
	return &Reader{logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and debug messages.
func (r *Reader) SetLogger(l *zap.Logger) {
	r.logger = l
}

// ReadVariants reads path with a default Reader.
func ReadVariants(path string) VariantSet {
	return NewReader().Read("", path)
}

// Read parses the VCF at path into a VariantSet tagged with pipeline.
// Header lines and malformed data lines are skipped.
func (r *Reader) Read(pipeline, path string) VariantSet {
	if path == "" {
		r.logger.Debug("no vcf configured", zap.String("pipeline", pipeline))
		return emptySet(pipeline, path, StatusMissing)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("vcf not found", zap.String("pipeline", pipeline), zap.String("path", path))
			return emptySet(pipeline, path, StatusMissing)
		}
		r.logger.Warn("cannot stat vcf", zap.String("pipeline", pipeline), zap.String("path", path), zap.Error(err))
		return emptySet(pipeline, path, StatusFailed)
	}

	parser, err := NewParser(path)
	if err != nil {
		r.logger.Warn("cannot open vcf", zap.String("pipeline", pipeline), zap.String("path", path), zap.Error(err))
		return emptySet(pipeline, path, StatusFailed)
	}
	defer parser.Close()

	set := NewVariantSet(pipeline)
	set.Path = path
	for {
		v, err := parser.Next()
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				set.Malformed++
				r.logger.Debug("skipping malformed line",
					zap.String("path", path),
					zap.Int("line", perr.Line),
					zap.String("reason", perr.Message))
				continue
			}
			r.logger.Warn("failed reading vcf, treating as empty",
				zap.String("pipeline", pipeline),
				zap.String("path", path),
				zap.Int("line", parser.LineNumber()),
				zap.Error(err))
			return emptySet(pipeline, path, StatusFailed)
		}
		if v == nil {
			break
		}
		set.keys[v.Key()] = struct{}{}
	}

	if set.Malformed > 0 {
		r.logger.Info("skipped malformed vcf lines",
			zap.String("path", path),
			zap.Int("count", set.Malformed))
	}
	return set
}
