package duckdb

import (
	"os"
	"time"

	"github.com/mss1091/variant-calling-benchmark/internal/report"
)

// Input roles recorded in the inputs table.
const (
	RoleCalls = "calls"
	RoleStep  = "step"
)

// FileFingerprint holds stat-based identity for an input of a run.
type FileFingerprint struct {
	Pipeline string
	Role     string
	Path     string
	Size     int64
	ModTime  time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Fingerprints stats the call sets and step files of rep that were read.
// Files that cannot be stat'ed are left out.
func Fingerprints(rep *report.Report) []FileFingerprint {
	var out []FileFingerprint
	add := func(pipeline, role, path string) {
		fp, err := StatFile(path)
		if err != nil {
			return
		}
		fp.Pipeline = pipeline
		fp.Role = role
		out = append(out, fp)
	}
	for _, s := range rep.Sets {
		if s.Status.Available() {
			add(s.Pipeline, RoleCalls, s.Path)
		}
	}
	for _, s := range rep.Steps {
		if s.Count.Available() {
			add(s.Pipeline, RoleStep, s.Path)
		}
	}
	return out
}
