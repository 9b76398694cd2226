package methclust

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadCpGTable parses one cell's methylation calls from tab-separated
// text with three columns: chromosome, 1-based position, methylation
// percent in [0, 100]. Blank lines and lines starting with '#' are
// skipped. Malformed lines and duplicate positions are rejected with
// errors wrapping ErrMalformedTable, naming the line; nothing downstream
// ever sees an invalid table.
func ReadCpGTable(r io.Reader) (CpGTable, error) {
	var table CpGTable
	seen := make(map[sitePos]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 3 tab-separated columns, got %d",
				ErrMalformedTable, lineNo, len(fields))
		}

		chrom := fields[0]
		if chrom == "" {
			return nil, fmt.Errorf("%w: line %d: empty chromosome", ErrMalformedTable, lineNo)
		}

		pos, err := strconv.Atoi(fields[1])
		if err != nil || pos <= 0 {
			return nil, fmt.Errorf("%w: line %d: bad position %q", ErrMalformedTable, lineNo, fields[1])
		}

		pct, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || math.IsNaN(pct) || pct < 0 || pct > 100 {
			return nil, fmt.Errorf("%w: line %d: methylation percent %q outside [0,100]",
				ErrMalformedTable, lineNo, fields[2])
		}

		key := sitePos{chrom, pos}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate site %s:%d", ErrMalformedTable, lineNo, chrom, pos)
		}
		seen[key] = struct{}{}

		table = append(table, CpGSite{Chromosome: chrom, Position: pos, MethylationPercent: pct})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// ReadCpGTableFile reads a call table from a file path.
func ReadCpGTableFile(path string) (CpGTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := ReadCpGTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
