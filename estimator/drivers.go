// SPDX-License-Identifier: MIT

// Package estimator: gene-fate correlation (lineage drivers).

package estimator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lineagelab/fateflow/kernel"
)

// DriverTable holds, per (gene, lineage), the Pearson correlation between
// the gene's expression and the lineage's fate probability, a Student's t
// p-value, and a Benjamini-Hochberg q-value.
type DriverTable struct {
	genes    []string
	lineages []string
	corr     *mat.Dense // genes × lineages
	pval     *mat.Dense
	qval     *mat.Dense
}

// Genes returns the gene names in row order. Read-only.
func (d *DriverTable) Genes() []string { return d.genes }

// Lineages returns the fate-column names in column order. Read-only.
func (d *DriverTable) Lineages() []string { return d.lineages }

// Correlation reports corr(gene, lineage).
func (d *DriverTable) Correlation(gene, lineage string) (float64, error) {
	i, j, err := d.locate(gene, lineage)
	if err != nil {
		return 0, err
	}

	return d.corr.At(i, j), nil
}

// PValue reports the uncorrected significance of corr(gene, lineage).
func (d *DriverTable) PValue(gene, lineage string) (float64, error) {
	i, j, err := d.locate(gene, lineage)
	if err != nil {
		return 0, err
	}

	return d.pval.At(i, j), nil
}

// QValue reports the Benjamini-Hochberg corrected significance.
func (d *DriverTable) QValue(gene, lineage string) (float64, error) {
	i, j, err := d.locate(gene, lineage)
	if err != nil {
		return 0, err
	}

	return d.qval.At(i, j), nil
}

// TopDrivers lists up to n genes by descending correlation with a lineage.
func (d *DriverTable) TopDrivers(lineage string, n int) ([]string, error) {
	col := -1
	for j, l := range d.lineages {
		if l == lineage {
			col = j
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %q; valid: [%s]",
			ErrUnknownLineage, lineage, strings.Join(d.lineages, " "))
	}

	order := make([]int, len(d.genes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(p, q int) bool {
		cp, cq := d.corr.At(order[p], col), d.corr.At(order[q], col)
		if math.IsNaN(cq) {
			return !math.IsNaN(cp)
		}
		if math.IsNaN(cp) {
			return false
		}

		return cp > cq
	})
	if n > len(order) {
		n = len(order)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = d.genes[order[i]]
	}

	return out, nil
}

func (d *DriverTable) locate(gene, lineage string) (int, int, error) {
	i := -1
	for r, g := range d.genes {
		if g == gene {
			i = r
			break
		}
	}
	if i < 0 {
		return 0, 0, fmt.Errorf("estimator: unknown gene %q", gene)
	}
	for j, l := range d.lineages {
		if l == lineage {
			return i, j, nil
		}
	}

	return 0, 0, fmt.Errorf("%w: %q; valid: [%s]",
		ErrUnknownLineage, lineage, strings.Join(d.lineages, " "))
}

// Clone returns a deep copy.
func (d *DriverTable) Clone() *DriverTable {
	if d == nil {
		return nil
	}

	return &DriverTable{
		genes:    append([]string(nil), d.genes...),
		lineages: append([]string(nil), d.lineages...),
		corr:     mat.DenseCopyOf(d.corr),
		pval:     mat.DenseCopyOf(d.pval),
		qval:     mat.DenseCopyOf(d.qval),
	}
}

// ComputeLineageDrivers correlates gene expression against fate
// probabilities, over all cells or a cluster-restricted subset. Requires
// fate probabilities, a dataset, and an expression matrix (or a named
// layer).
func (e *CFLARE) ComputeLineageDrivers(opts ...DriverOption) error {
	if e == nil {
		return ErrNilEstimator
	}
	e.invalidateStale()
	if e.fate == nil {
		return ErrNoFateProbabilities
	}
	ds := e.k.Dataset()
	if ds == nil {
		return kernel.ErrNilDataset
	}
	var o driverOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Resolve lineages.
	lineages := o.lineages
	if lineages == nil {
		lineages = append([]string(nil), e.fate.Names()...)
	}
	cols := make([]int, len(lineages))
	for k, name := range lineages {
		found := -1
		for j, n := range e.fate.Names() {
			if n == name {
				found = j
				break
			}
		}
		if found < 0 {
			return fmt.Errorf("%w: %q; valid: [%s]",
				ErrUnknownLineage, name, strings.Join(e.fate.Names(), " "))
		}
		cols[k] = found
	}

	// Resolve expression source.
	x, genes, err := ds.Expression()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoExpression, err)
	}
	if o.layer != "" {
		if x, err = ds.Layer(o.layer); err != nil {
			return fmt.Errorf("estimator: %w", err)
		}
	}

	// Resolve the cell subset.
	cells, err := e.selectCells(o)
	if err != nil {
		return err
	}

	nGenes := len(genes)
	corr := mat.NewDense(nGenes, len(lineages), nil)
	pval := mat.NewDense(nGenes, len(lineages), nil)
	qval := mat.NewDense(nGenes, len(lineages), nil)

	expr := make([]float64, len(cells))
	fate := make([]float64, len(cells))
	for lj, fj := range cols {
		for ci, i := range cells {
			fate[ci] = e.fate.Dense().At(i, fj)
		}
		for g := 0; g < nGenes; g++ {
			for ci, i := range cells {
				expr[ci] = x.At(i, g)
			}
			r := stat.Correlation(expr, fate, nil)
			corr.Set(g, lj, r)
			pval.Set(g, lj, pearsonPValue(r, len(cells)))
		}

		// Benjamini-Hochberg within the lineage.
		ps := make([]float64, nGenes)
		mat.Col(ps, lj, pval)
		for g, q := range benjaminiHochberg(ps) {
			qval.Set(g, lj, q)
		}
	}

	e.drivers = &DriverTable{
		genes:    append([]string(nil), genes...),
		lineages: lineages,
		corr:     corr,
		pval:     pval,
		qval:     qval,
	}

	return nil
}

// selectCells applies the optional cluster restriction.
func (e *CFLARE) selectCells(o driverOptions) ([]int, error) {
	n, _ := e.fate.Dims()
	if o.clusterKey == "" {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}

		return all, nil
	}

	labels, err := e.k.Dataset().CatObs(o.clusterKey)
	if err != nil {
		return nil, fmt.Errorf("estimator: %w", err)
	}

	present := make(map[string]bool, 8)
	for _, l := range labels {
		present[l] = true
	}
	var invalid []string
	want := make(map[string]bool, len(o.clusters))
	for _, c := range o.clusters {
		if !present[c] {
			invalid = append(invalid, c)
			continue
		}
		want[c] = true
	}
	if len(invalid) > 0 {
		valid := make([]string, 0, len(present))
		for c := range present {
			valid = append(valid, c)
		}
		sort.Strings(valid)
		sort.Strings(invalid)

		return nil, fmt.Errorf("%w: %v; valid: [%s]",
			ErrUnknownCluster, invalid, strings.Join(valid, " "))
	}

	var cells []int
	for i, l := range labels {
		if want[l] {
			cells = append(cells, i)
		}
	}

	return cells, nil
}

// pearsonPValue tests r != 0 with the t-statistic r*sqrt((n-2)/(1-r^2)).
func pearsonPValue(r float64, n int) float64 {
	if math.IsNaN(r) || n < 3 {
		return math.NaN()
	}
	if r >= 1 || r <= -1 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	if p > 1 {
		p = 1
	}

	return p
}

// benjaminiHochberg converts p-values into monotone q-values; NaN entries
// pass through.
func benjaminiHochberg(p []float64) []float64 {
	var idx []int
	for i, v := range p {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return p[idx[a]] < p[idx[b]] })

	m := float64(len(idx))
	q := make([]float64, len(p))
	for i := range q {
		q[i] = math.NaN()
	}
	minSoFar := 1.0
	for rank := len(idx) - 1; rank >= 0; rank-- {
		i := idx[rank]
		v := p[i] * m / float64(rank+1)
		if v < minSoFar {
			minSoFar = v
		}
		q[i] = minSoFar
	}

	return q
}
