package methclust

import "testing"

func TestUnionFind_FindOnFreshSetIsIdentity(t *testing.T) {
	uf := newUnionFind(4)
	for i := 0; i < 4; i++ {
		if root := uf.find(i); root != i {
			t.Errorf("find(%d) = %d, expected %d", i, root, i)
		}
	}
}

func TestUnionFind_MergeAssignsSequentialLabels(t *testing.T) {
	uf := newUnionFind(4)

	// First merge gets label n, second n+1, and so on, matching the
	// dendrogram cluster-ID scheme.
	label, size := uf.merge(0, 1)
	if label != 4 || size != 2 {
		t.Fatalf("first merge = (%d, %d), expected (4, 2)", label, size)
	}
	label, size = uf.merge(2, 3)
	if label != 5 || size != 2 {
		t.Fatalf("second merge = (%d, %d), expected (5, 2)", label, size)
	}
	label, size = uf.merge(4, 5)
	if label != 6 || size != 4 {
		t.Fatalf("third merge = (%d, %d), expected (6, 4)", label, size)
	}

	// All leaves now share the final root.
	root := uf.find(0)
	for i := 1; i < 4; i++ {
		if uf.find(i) != root {
			t.Errorf("find(%d) = %d, expected %d", i, uf.find(i), root)
		}
	}
}

func TestUnionFind_MergedLeavesShareRoot(t *testing.T) {
	uf := newUnionFind(3)
	uf.merge(0, 2)
	if uf.find(0) != uf.find(2) {
		t.Error("leaves 0 and 2 should share a root after merging")
	}
	if uf.find(1) == uf.find(0) {
		t.Error("leaf 1 should remain separate")
	}
}
