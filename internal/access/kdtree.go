package access

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Neighbor is one k-nearest-neighbor query result.
type Neighbor struct {
	Index    int // index into the point set the tree was built from
	Distance float64
}

// KDTree is a static 2-d tree over projected planar coordinates. It is built
// once per run over the facility set and queried once per hexagon.
type KDTree struct {
	pts  []geom.Coord
	root *kdNode
}

type kdNode struct {
	idx         int
	left, right *kdNode
}

// NewKDTree builds a balanced tree by median splitting. The input slice is
// not retained beyond the point storage; callers must not mutate it.
func NewKDTree(pts []geom.Coord) *KDTree {
	idxs := make([]int, len(pts))
	for i := range idxs {
		idxs[i] = i
	}
	t := &KDTree{pts: pts}
	t.root = t.build(idxs, 0)
	return t
}

func (t *KDTree) build(idxs []int, depth int) *kdNode {
	if len(idxs) == 0 {
		return nil
	}
	axis := depth % 2
	sort.Slice(idxs, func(i, j int) bool {
		return t.pts[idxs[i]][axis] < t.pts[idxs[j]][axis]
	})
	mid := len(idxs) / 2
	return &kdNode{
		idx:   idxs[mid],
		left:  t.build(idxs[:mid], depth+1),
		right: t.build(idxs[mid+1:], depth+1),
	}
}

// Nearest returns the k nearest points to q in ascending distance order.
// Fewer than k results are returned only when the tree holds fewer points.
func (t *KDTree) Nearest(q geom.Coord, k int) []Neighbor {
	if k <= 0 || t.root == nil {
		return nil
	}
	if k > len(t.pts) {
		k = len(t.pts)
	}
	best := make([]Neighbor, 0, k)
	t.search(t.root, q, 0, k, &best)
	return best
}

func (t *KDTree) search(node *kdNode, q geom.Coord, depth, k int, best *[]Neighbor) {
	if node == nil {
		return
	}

	d := xy.Distance(t.pts[node.idx], q)
	insert(best, Neighbor{Index: node.idx, Distance: d}, k)

	axis := depth % 2
	diff := q[axis] - t.pts[node.idx][axis]

	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}

	t.search(near, q, depth+1, k, best)

	// The far half-space can only matter if the splitting plane is closer
	// than the current k-th best distance (or the result set is not full).
	if len(*best) < k || math.Abs(diff) < (*best)[len(*best)-1].Distance {
		t.search(far, q, depth+1, k, best)
	}
}

// insert keeps best sorted ascending by distance and capped at k entries.
func insert(best *[]Neighbor, n Neighbor, k int) {
	b := *best
	pos := sort.Search(len(b), func(i int) bool { return b[i].Distance > n.Distance })
	if len(b) < k {
		b = append(b, Neighbor{})
	} else if pos >= len(b) {
		return
	}
	copy(b[pos+1:], b[pos:len(b)-1])
	b[pos] = n
	*best = b
}
