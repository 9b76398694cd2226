package methclust

// unionFind is a disjoint-set structure with path compression and union
// by size, sized for 2n-1 elements so dendrogram cluster IDs (leaves
// 0..n-1, merged clusters n..2n-2) can be stored as roots.
type unionFind struct {
	parent []int
	size   []int
	// nextLabel is the ID for the next merged cluster, starting at n.
	nextLabel int
}

func newUnionFind(n int) *unionFind {
	total := 2*n - 1
	if total < 1 {
		total = 1
	}
	parent := make([]int, total)
	size := make([]int, total)
	for i := range parent {
		parent[i] = -1 // -1 means "is a root"
	}
	for i := 0; i < n; i++ {
		size[i] = 1
	}
	return &unionFind{parent: parent, size: size, nextLabel: n}
}

// find returns the root of the set containing x, with path compression.
func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != -1 {
		root = uf.parent[root]
	}
	for uf.parent[x] != -1 {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// merge relabels the sets containing x and y under the next dendrogram
// cluster ID and returns that ID with the merged size. Both old roots
// point at the new label, matching scipy's linkage bookkeeping.
func (uf *unionFind) merge(x, y int) (label, mergedSize int) {
	rx, ry := uf.find(x), uf.find(y)
	label = uf.nextLabel
	mergedSize = uf.size[rx] + uf.size[ry]
	uf.size[label] = mergedSize
	uf.parent[rx] = label
	uf.parent[ry] = label
	uf.nextLabel++
	return label, mergedSize
}
