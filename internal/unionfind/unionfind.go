// Package unionfind implements a disjoint-set forest over dense node ids.
package unionfind

// UnionFind uses path halving and union by rank.
type UnionFind struct {
	parent []int32
	rank   []byte
	size   []int32
}

// New creates a UnionFind with n singleton sets.
func New(n int) *UnionFind {
	parent := make([]int32, n)
	size := make([]int32, n)
	for i := range parent {
		parent[i] = int32(i)
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Len returns the number of elements.
func (uf *UnionFind) Len() int { return len(uf.parent) }

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x int32) int32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. It reports false if they were
// already in the same set.
func (uf *UnionFind) Union(x, y int32) bool {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the size of the set containing x.
func (uf *UnionFind) Size(x int32) int {
	return int(uf.size[uf.Find(x)])
}
