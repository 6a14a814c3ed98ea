package vcf

// Status records how a per-file result came to be. A zero count or empty
// set with StatusMissing or StatusFailed means "no data", not "nothing
// called".
type Status int

const (
	// StatusRead means the file was read to the end.
	StatusRead Status = iota
	// StatusMissing means no file was configured or it does not exist.
	StatusMissing
	// StatusFailed means the file exists but could not be read or decoded.
	StatusFailed
)

// String returns a short lower-case name for the status.
func (s Status) String() string {
	switch s {
	case StatusRead:
		return "read"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Available reports whether the value backed by this status reflects file content.
func (s Status) Available() bool {
	return s == StatusRead
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
