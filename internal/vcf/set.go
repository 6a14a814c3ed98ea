package vcf

import "sort"

// VariantSet is the deduplicated set of variant keys read from one VCF.
// It is not modified after the reader returns it.
type VariantSet struct {
	Pipeline  string // pipeline identifier the set was read for
	Path      string // source file
	Status    Status
	Malformed int // data lines skipped because they could not be parsed

	keys map[VariantKey]struct{}
}

// NewVariantSet builds a set from keys. Duplicates are collapsed.
func NewVariantSet(pipeline string, keys ...VariantKey) VariantSet {
	s := VariantSet{
		Pipeline: pipeline,
		Status:   StatusRead,
		keys:     make(map[VariantKey]struct{}, len(keys)),
	}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// emptySet returns a set that carries no data for the given reason.
func emptySet(pipeline, path string, status Status) VariantSet {
	return VariantSet{Pipeline: pipeline, Path: path, Status: status}
}

// Len returns the number of distinct variants.
func (s VariantSet) Len() int {
	return len(s.keys)
}

// Contains reports whether k is in the set.
func (s VariantSet) Contains(k VariantKey) bool {
	_, ok := s.keys[k]
	return ok
}

// Keys returns the keys sorted by chromosome, position and alleles.
func (s VariantSet) Keys() []VariantKey {
	out := make([]VariantKey, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// IntersectionSize returns |s ∩ o|, probing the larger set with the smaller.
func (s VariantSet) IntersectionSize(o VariantSet) int {
	small, large := s.keys, o.keys
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if _, ok := large[k]; ok {
			n++
		}
	}
	return n
}

// UnionSize returns |s ∪ o|.
func (s VariantSet) UnionSize(o VariantSet) int {
	return len(s.keys) + len(o.keys) - s.IntersectionSize(o)
}

// Equal reports whether both sets hold exactly the same keys.
func (s VariantSet) Equal(o VariantSet) bool {
	return len(s.keys) == len(o.keys) && s.IntersectionSize(o) == len(s.keys)
}

// TypeCounts returns the number of SNVs and indels in the set. Keys that
// are neither (e.g. MNVs) are not counted.
func (s VariantSet) TypeCounts() (snvs, indels int) {
	for k := range s.keys {
		switch {
		case k.IsSNV():
			snvs++
		case k.IsIndel():
			indels++
		}
	}
	return snvs, indels
}
