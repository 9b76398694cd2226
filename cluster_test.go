package methclust

import (
	"errors"
	"testing"
)

// twoGroupMatrix builds a 4-cell matrix with two tight groups:
// a-b and c-d at distance 1 and 2, everything across groups at 10.
func twoGroupMatrix(t *testing.T) *DissimilarityMatrix {
	t.Helper()
	stats := []PairStats{
		{CellA: "a", CellB: "b", SharedSites: 5, ManhattanScaled: 1},
		{CellA: "c", CellB: "d", SharedSites: 5, ManhattanScaled: 2},
		{CellA: "a", CellB: "c", SharedSites: 5, ManhattanScaled: 10},
		{CellA: "a", CellB: "d", SharedSites: 5, ManhattanScaled: 10},
		{CellA: "b", CellB: "c", SharedSites: 5, ManhattanScaled: 10},
		{CellA: "b", CellB: "d", SharedSites: 5, ManhattanScaled: 10},
	}
	m, err := AssembleMatrix(stats, DefaultMatrixConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return m
}

func TestCluster_TwoGroups(t *testing.T) {
	m := twoGroupMatrix(t)
	cfg := DefaultClusterConfig()
	cfg.K = 2

	result, err := Cluster(m, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Labels follow the lexicographically smallest member: a's group
	// is 1, c's group is 2.
	want := map[string]int{"a": 1, "b": 1, "c": 2, "d": 2}
	for cell, label := range want {
		if result.Assignment[cell] != label {
			t.Errorf("Assignment[%s] = %d, expected %d", cell, result.Assignment[cell], label)
		}
	}
}

func TestCluster_DendrogramMergeOrder(t *testing.T) {
	m := twoGroupMatrix(t)
	cfg := DefaultClusterConfig()
	cfg.K = 1

	result, err := Cluster(m, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Dendrogram) != 3 {
		t.Fatalf("expected 3 merges for 4 cells, got %d", len(result.Dendrogram))
	}

	// Merge 1: leaves 0 (a) and 1 (b) at height 1 → cluster 4.
	// Merge 2: leaves 2 (c) and 3 (d) at height 2 → cluster 5.
	// Merge 3: clusters 4 and 5 at height 10 (complete linkage).
	want := [][4]float64{
		{0, 1, 1, 2},
		{2, 3, 2, 2},
		{4, 5, 10, 4},
	}
	for i, row := range want {
		if result.Dendrogram[i] != row {
			t.Errorf("merge %d = %v, expected %v", i, result.Dendrogram[i], row)
		}
	}
}

func TestCluster_KOneGroupsEverything(t *testing.T) {
	m := twoGroupMatrix(t)
	cfg := DefaultClusterConfig()
	cfg.K = 1

	result, err := Cluster(m, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cell := range result.Names {
		if result.Assignment[cell] != 1 {
			t.Errorf("Assignment[%s] = %d, expected 1", cell, result.Assignment[cell])
		}
	}
}

func TestCluster_KEqualsCellCountIsAllSingletons(t *testing.T) {
	m := twoGroupMatrix(t)
	cfg := DefaultClusterConfig()
	cfg.K = 4

	result, err := Cluster(m, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Sorted names get labels 1..4 in order.
	for i, cell := range result.Names {
		if result.Assignment[cell] != i+1 {
			t.Errorf("Assignment[%s] = %d, expected %d", cell, result.Assignment[cell], i+1)
		}
	}
}

func TestCluster_SingleLinkageChains(t *testing.T) {
	// Chain a-b=1, b-c=2, a-c=10: single linkage joins {a,b} to c at 2,
	// complete linkage at 10.
	stats := []PairStats{
		{CellA: "a", CellB: "b", SharedSites: 5, ManhattanScaled: 1},
		{CellA: "b", CellB: "c", SharedSites: 5, ManhattanScaled: 2},
		{CellA: "a", CellB: "c", SharedSites: 5, ManhattanScaled: 10},
	}
	m, err := AssembleMatrix(stats, DefaultMatrixConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	single, err := Cluster(m, ClusterConfig{K: 1, Linkage: LinkageSingle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h := single.Dendrogram[1][2]; h != 2 {
		t.Errorf("single-linkage final merge height = %v, expected 2", h)
	}

	complete, err := Cluster(m, ClusterConfig{K: 1, Linkage: LinkageComplete})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h := complete.Dendrogram[1][2]; h != 10 {
		t.Errorf("complete-linkage final merge height = %v, expected 10", h)
	}
}

func TestCluster_SingleLinkageHeightsAreMonotone(t *testing.T) {
	// Single-linkage merge heights never decrease. Exercise the property
	// on a larger fixture with scrambled, deterministic distances.
	names := []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	var stats []PairStats
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			d := float64((i*7+j*13)%19 + 1)
			stats = append(stats, PairStats{
				CellA: names[i], CellB: names[j],
				SharedSites: 5, ManhattanScaled: d,
			})
		}
	}
	m, err := AssembleMatrix(stats, DefaultMatrixConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	result, err := Cluster(m, ClusterConfig{K: 1, Linkage: LinkageSingle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Dendrogram) != len(names)-1 {
		t.Fatalf("expected %d merges, got %d", len(names)-1, len(result.Dendrogram))
	}
	for i := 1; i < len(result.Dendrogram); i++ {
		prev, cur := result.Dendrogram[i-1][2], result.Dendrogram[i][2]
		if cur < prev {
			t.Errorf("merge %d height %v below merge %d height %v", i, cur, i-1, prev)
		}
	}
}

func TestCluster_AverageLinkage(t *testing.T) {
	// After merging a,b (distance 1), average linkage puts {a,b}–c at
	// (10 + 2) / 2 = 6.
	stats := []PairStats{
		{CellA: "a", CellB: "b", SharedSites: 5, ManhattanScaled: 1},
		{CellA: "b", CellB: "c", SharedSites: 5, ManhattanScaled: 2},
		{CellA: "a", CellB: "c", SharedSites: 5, ManhattanScaled: 10},
	}
	m, err := AssembleMatrix(stats, DefaultMatrixConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	result, err := Cluster(m, ClusterConfig{K: 1, Linkage: LinkageAverage})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h := result.Dendrogram[1][2]; h != 6 {
		t.Errorf("average-linkage final merge height = %v, expected 6", h)
	}
}

func TestCluster_InvalidK(t *testing.T) {
	m := twoGroupMatrix(t)
	for _, k := range []int{0, -1, 5} {
		cfg := DefaultClusterConfig()
		cfg.K = k
		if _, err := Cluster(m, cfg); !errors.Is(err, ErrConfiguration) {
			t.Errorf("K=%d: expected ErrConfiguration, got %v", k, err)
		}
	}
}

func TestCluster_UnknownLinkage(t *testing.T) {
	m := twoGroupMatrix(t)
	_, err := Cluster(m, ClusterConfig{K: 2, Linkage: "ward"})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestCluster_MissingOffDiagonalEntryIsError(t *testing.T) {
	// Records for a-b and a-c only: pair b-c is missing from the matrix.
	stats := []PairStats{
		{CellA: "a", CellB: "b", SharedSites: 5, ManhattanScaled: 1},
		{CellA: "a", CellB: "c", SharedSites: 5, ManhattanScaled: 2},
	}
	m, err := AssembleMatrix(stats, DefaultMatrixConfig())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	_, err = Cluster(m, ClusterConfig{K: 1})
	if !errors.Is(err, ErrIncompleteMatrix) {
		t.Fatalf("expected ErrIncompleteMatrix, got %v", err)
	}
}

func TestCluster_MissingDiagonalIsIgnored(t *testing.T) {
	// Default assembly leaves the diagonal NaN; clustering must not care.
	m := twoGroupMatrix(t)
	if _, err := Cluster(m, ClusterConfig{K: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCluster_SubsetThenClusterExcludesDroppedCells(t *testing.T) {
	m := twoGroupMatrix(t)
	sub, err := m.Subset([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("subset: %v", err)
	}

	result, err := Cluster(sub, ClusterConfig{K: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Assignment) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(result.Assignment))
	}
	if _, ok := result.Assignment["d"]; ok {
		t.Error("dropped cell d still assigned a cluster")
	}
	// a-b at distance 1 stay together, c splits off.
	if result.Assignment["a"] != result.Assignment["b"] {
		t.Error("cells a and b should share a cluster")
	}
	if result.Assignment["c"] == result.Assignment["a"] {
		t.Error("cell c should be in its own cluster")
	}
}
