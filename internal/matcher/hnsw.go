package matcher

import (
	"fmt"
	"math"
	"sync"

	"github.com/coder/hnsw"

	"github.com/faceattend/faceattend/internal/gallery"
)

// HNSW graph parameters, tuned for face-sized embedding sets.
const (
	hnswMaxNeighbors = 16
	hnswCandidates   = 32
)

// HNSW is an index-backed matcher for galleries too large for a full scan.
// It is approximate: recall depends on graph parameters. Candidates returned
// by the graph are re-ranked with exact Euclidean distances and insertion
// sequence, so on the candidate set it behaves exactly like Linear.
type HNSW struct {
	Threshold float64

	mu    sync.RWMutex
	graph *hnsw.Graph[int]
	nodes []hnswNode // indexed by graph key, in gallery enrollment order
	dim   int
}

type hnswNode struct {
	name string
	vec  gallery.Vector
}

// NewHNSW builds an index-backed matcher from a gallery snapshot.
// The snapshot is not tracked; call Rebuild after the gallery changes.
func NewHNSW(threshold float64, g *gallery.Gallery) *HNSW {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	m := &HNSW{Threshold: threshold}
	m.Rebuild(g)
	return m
}

// Rebuild replaces the index with one built from the given gallery.
func (m *HNSW) Rebuild(g *gallery.Gallery) {
	graph := hnsw.NewGraph[int]()
	graph.M = hnswMaxNeighbors
	graph.Ml = 1.0 / float64(hnswMaxNeighbors)
	graph.Distance = hnsw.EuclideanDistance

	var nodes []hnswNode
	for _, name := range g.Names() {
		for _, v := range g.Samples(name) {
			graph.Add(hnsw.MakeNode(len(nodes), v))
			nodes = append(nodes, hnswNode{name: name, vec: v})
		}
	}

	m.mu.Lock()
	m.graph = graph
	m.nodes = nodes
	m.dim = g.Dim()
	m.mu.Unlock()
}

// Count returns the number of indexed vectors.
func (m *HNSW) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// Recognize searches the graph for nearest candidates and picks the best by
// exact distance, earliest insertion winning ties. The gallery argument is
// ignored; vectors and the dimension come from the index snapshot.
func (m *HNSW) Recognize(query gallery.Vector, _ *gallery.Gallery) (Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.dim != 0 && len(query) != m.dim {
		return Match{}, fmt.Errorf("%w: query has dimension %d, index has %d",
			gallery.ErrDimensionMismatch, len(query), m.dim)
	}

	best := Match{Name: Unknown, Distance: math.Inf(1)}
	if len(m.nodes) > 0 {
		bestKey := len(m.nodes)
		for _, n := range m.graph.Search(query, hnswCandidates) {
			d := EuclideanDistance(query, m.nodes[n.Key].vec)
			if d < best.Distance || (d == best.Distance && n.Key < bestKey) {
				best.Distance = d
				best.Name = m.nodes[n.Key].name
				bestKey = n.Key
			}
		}
	}

	if best.Distance >= m.Threshold {
		best.Name = Unknown
	}
	return best, nil
}
