// Package vcf reads VCF result files into canonical variant sets.
package vcf

import (
	"strconv"
	"strings"
)

// Variant is a single VCF data line reduced to its first five columns.
type Variant struct {
	Chrom string // Chromosome name as written in the file (e.g., "chr12", "12")
	Pos   int64  // 1-based genomic position
	ID    string // Variant identifier (e.g., rs ID or ".")
	Ref   string // Reference allele
	Alt   string // Raw ALT column, possibly comma-separated
}

// FirstAlt returns the first comma-separated alternate allele.
func (v *Variant) FirstAlt() string {
	if i := strings.IndexByte(v.Alt, ','); i >= 0 {
		return v.Alt[:i]
	}
	return v.Alt
}

// Key returns the canonical identity of the variant. Multi-allelic records
// collapse to their first alternate allele.
func (v *Variant) Key() VariantKey {
	return VariantKey{
		Chrom: v.Chrom,
		Pos:   v.Pos,
		Ref:   v.Ref,
		Alt:   v.FirstAlt(),
	}
}

// VariantKey is the identity used to compare calls across pipelines.
// Keys compare structurally; indels are not left-aligned or otherwise
// normalized, so equivalent representations remain distinct.
type VariantKey struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
}

// String formats the key as chrom:pos:ref:alt.
func (k VariantKey) String() string {
	return k.Chrom + ":" + strconv.FormatInt(k.Pos, 10) + ":" + k.Ref + ":" + k.Alt
}

// IsSNV returns true if the key describes a single nucleotide variant.
func (k VariantKey) IsSNV() bool {
	return len(k.Ref) == 1 && len(k.Alt) == 1
}

// IsIndel returns true if the key describes an insertion or deletion.
func (k VariantKey) IsIndel() bool {
	return len(k.Ref) != len(k.Alt)
}

// less orders keys by chromosome name, position, then alleles.
func (k VariantKey) less(o VariantKey) bool {
	if k.Chrom != o.Chrom {
		return k.Chrom < o.Chrom
	}
	if k.Pos != o.Pos {
		return k.Pos < o.Pos
	}
	if k.Ref != o.Ref {
		return k.Ref < o.Ref
	}
	return k.Alt < o.Alt
}
