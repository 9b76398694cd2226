package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/sirupsen/logrus"

	"github.com/epigen/methclust"
)

const version = "0.1.0"

func main() {
	parser := argparse.NewParser("methclust",
		"methclust computes pairwise dissimilarity between single-cell CpG methylation profiles and hierarchically clusters the cells. Input is a directory of per-cell call tables (tab-separated: chromosome, position, methylation percent); the cell name is the file stem.")
	input := parser.String("i", "input", &argparse.Options{Help: "Directory of per-cell .tsv call tables"})
	k := parser.Int("k", "clusters", &argparse.Options{Help: "Number of flat clusters to cut the dendrogram into"})
	measure := parser.String("m", "measure", &argparse.Options{Help: "Matrix measure: shared_sites, pearson, manhattan, manhattan_scaled", Default: string(methclust.MeasureManhattanScaled)})
	linkage := parser.String("l", "linkage", &argparse.Options{Help: "Linkage: single, complete, average", Default: string(methclust.LinkageComplete)})
	workers := parser.Int("w", "workers", &argparse.Options{Help: "Parallel workers for the pairwise fan-out (0 = number of CPUs)", Default: 0})
	allCalls := parser.Flag("", "all-calls", &argparse.Options{Help: "Keep intermediate methylation values instead of digital (0/100) calls only"})
	outprefix := parser.String("o", "prefix", &argparse.Options{Help: "Output prefix for the pairwise, matrix and cluster tables", Default: "methclust"})
	showVersion := parser.Flag("v", "version", &argparse.Options{Help: "Print the methclust version"})
	// note: "Required" interface clashes with --version flag.
	err := parser.Parse(os.Args)

	if *showVersion {
		fmt.Println("methclust version:", version)
		os.Exit(0)
	}
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}
	if *input == "" || *k == 0 {
		fmt.Println(parser.Help(nil))
		os.Exit(1)
	}

	tables, err := loadTables(*input)
	if err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
	logrus.Infof("loaded %d cells from %s", len(tables), *input)

	opts := methclust.DefaultOptions()
	opts.DigitalOnly = !*allCalls
	opts.Workers = *workers
	stats, err := methclust.PairwiseStats(tables, opts)
	if err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
	logrus.Infof("compared %d cell pairs", len(stats))

	// Diagonal 0: a cell is at distance zero from itself. Clustering
	// ignores the diagonal, but the written matrix should carry it.
	zero := 0.0
	matrix, err := methclust.AssembleMatrix(stats, methclust.MatrixConfig{
		Measure:  methclust.Measure(*measure),
		Diagonal: &zero,
	})
	if err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}

	result, err := methclust.Cluster(matrix, methclust.ClusterConfig{
		K:       *k,
		Linkage: methclust.Linkage(*linkage),
	})
	if err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
	logrus.Infof("cut dendrogram into %d clusters", *k)

	if err := writePairwise(*outprefix+"_pairwise.tsv", stats); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
	if err := writeMatrix(*outprefix+"_matrix.tsv", matrix); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
	if err := writeClusters(*outprefix+"_clusters.tsv", result); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
	logrus.Infof("wrote %s_{pairwise,matrix,clusters}.tsv", *outprefix)
}

// loadTables reads every .tsv file in dir as one cell's call table,
// keyed by file stem.
func loadTables(dir string) (map[string]methclust.CpGTable, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.tsv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .tsv call tables found in %s", dir)
	}

	tables := make(map[string]methclust.CpGTable, len(paths))
	for _, path := range paths {
		cell := strings.TrimSuffix(filepath.Base(path), ".tsv")
		table, err := methclust.ReadCpGTableFile(path)
		if err != nil {
			return nil, err
		}
		tables[cell] = table
	}
	return tables, nil
}

// fmtValue writes NA for missing (NaN) values, the R convention for the
// downstream tools these tables feed.
func fmtValue(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return fmt.Sprintf("%g", v)
}

func writePairwise(path string, stats []methclust.PairStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "cell_a\tcell_b\tshared_sites\tpearson\tmanhattan\tmanhattan_scaled")
	for _, s := range stats {
		fmt.Fprintf(f, "%s\t%s\t%d\t%s\t%s\t%s\n",
			s.CellA, s.CellB, s.SharedSites,
			fmtValue(s.Pearson), fmtValue(s.Manhattan), fmtValue(s.ManhattanScaled))
	}
	return nil
}

func writeMatrix(path string, m *methclust.DissimilarityMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := m.Names()
	fmt.Fprintln(f, "cell\t"+strings.Join(names, "\t"))
	for _, a := range names {
		row := make([]string, 0, len(names)+1)
		row = append(row, a)
		for _, b := range names {
			v, _ := m.At(a, b)
			row = append(row, fmtValue(v))
		}
		fmt.Fprintln(f, strings.Join(row, "\t"))
	}
	return nil
}

func writeClusters(path string, result *methclust.ClusterResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "cell\tcluster")
	for _, name := range result.Names {
		fmt.Fprintf(f, "%s\t%d\n", name, result.Assignment[name])
	}
	return nil
}
