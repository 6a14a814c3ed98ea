// Package compare computes pairwise similarity between pipeline call sets.
package compare

import (
	"fmt"

	"github.com/exascience/pargo/parallel"
	"gonum.org/v1/gonum/mat"

	"github.com/mss1091/variant-calling-benchmark/internal/vcf"
)

// Label names one row/column of a SimilarityMatrix for display.
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Annotation string `json:"annotation,omitempty"`
}

// String returns the ID followed by the annotation, e.g. "P6 (COSAP + Strelka2)".
func (l Label) String() string {
	if l.Annotation == "" {
		return l.ID
	}
	return l.ID + " (" + l.Annotation + ")"
}

// Jaccard returns |A∩B| / |A∪B|. When both sets are empty the union is
// zero and the result is 1.0: two pipelines without data read as
// identical, not as undefined. Callers that need to tell "no data" apart
// must look at the sets' Status.
func Jaccard(a, b vcf.VariantSet) float64 {
	inter := a.IntersectionSize(b)
	union := a.Len() + b.Len() - inter
	if union == 0 {
		return 1.0
	}
	return float64(inter) / float64(union)
}

// SimilarityMatrix is the symmetric matrix of Jaccard indices over an
// ordered list of pipelines.
type SimilarityMatrix struct {
	Labels []Label
	data   *mat.SymDense
}

// NewSimilarityMatrix computes Jaccard(sets[i], sets[j]) for every pair.
// labels[i] describes sets[i].
func NewSimilarityMatrix(labels []Label, sets []vcf.VariantSet) (*SimilarityMatrix, error) {
	if len(labels) != len(sets) {
		return nil, fmt.Errorf("similarity matrix: %d labels for %d sets", len(labels), len(sets))
	}

	m := &SimilarityMatrix{Labels: labels}
	n := len(sets)
	if n == 0 {
		return m, nil
	}

	m.data = mat.NewSymDense(n, nil)
	// Each row writes only its own upper-triangle cells.
	parallel.Range(0, n, 0, func(low, high int) {
		for i := low; i < high; i++ {
			for j := i; j < n; j++ {
				m.data.SetSym(i, j, Jaccard(sets[i], sets[j]))
			}
		}
	})
	return m, nil
}

// Len returns the number of rows (and columns).
func (m *SimilarityMatrix) Len() int {
	return len(m.Labels)
}

// At returns the similarity between pipelines i and j.
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// Row returns a copy of row i.
func (m *SimilarityMatrix) Row(i int) []float64 {
	row := make([]float64, m.Len())
	for j := range row {
		row[j] = m.data.At(i, j)
	}
	return row
}

// Index returns the position of the pipeline with the given ID, or -1.
func (m *SimilarityMatrix) Index(id string) int {
	for i, l := range m.Labels {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Lookup returns the similarity between two pipelines by ID.
func (m *SimilarityMatrix) Lookup(a, b string) (float64, bool) {
	i, j := m.Index(a), m.Index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.At(i, j), true
}

// Pairs returns the upper triangle, diagonal excluded, in row-major order.
func (m *SimilarityMatrix) Pairs() []Pair {
	var pairs []Pair
	for i := 0; i < m.Len(); i++ {
		for j := i + 1; j < m.Len(); j++ {
			pairs = append(pairs, Pair{A: m.Labels[i].ID, B: m.Labels[j].ID, Jaccard: m.At(i, j)})
		}
	}
	return pairs
}

// Pair is one off-diagonal entry of the matrix.
type Pair struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	Jaccard float64 `json:"jaccard"`
}

// OffDiagonal returns every off-diagonal value of the upper triangle.
func (m *SimilarityMatrix) OffDiagonal() []float64 {
	pairs := m.Pairs()
	vals := make([]float64, len(pairs))
	for i, p := range pairs {
		vals[i] = p.Jaccard
	}
	return vals
}
