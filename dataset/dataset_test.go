package dataset_test

import (
	"bytes"
	"encoding/gob"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/lineagelab/fateflow/dataset"
	"github.com/lineagelab/fateflow/matrix"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func cellNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	return names
}

// ringGraph builds a symmetric n-cell ring with unit weights.
func ringGraph(t *testing.T, n int) *matrix.CSR {
	t.Helper()

	coo, err := matrix.NewCoo(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		require.NoError(t, coo.Append(i, j, 1))
		require.NoError(t, coo.Append(j, i, 1))
	}
	c, err := coo.ToCSR()
	require.NoError(t, err)

	return c
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_EmptyNames(t *testing.T) {
	_, err := dataset.New(nil)
	require.ErrorIs(t, err, dataset.ErrEmptyNames)
}

func TestNew_DuplicateName(t *testing.T) {
	_, err := dataset.New([]string{"a", "b", "a"})
	require.ErrorIs(t, err, dataset.ErrDuplicateName)
	require.Contains(t, err.Error(), `"a"`)
}

func TestNew_OptionShapeChecks(t *testing.T) {
	names := cellNames(4)

	_, err := dataset.New(names, dataset.WithObs("pt", []float64{0.1, 0.2}))
	require.ErrorIs(t, err, dataset.ErrLengthMismatch)

	_, err = dataset.New(names, dataset.WithConnectivities(ringGraph(t, 3), 2))
	require.ErrorIs(t, err, dataset.ErrBadConnectivities)

	_, err = dataset.New(names,
		dataset.WithExpression(mat.NewDense(4, 2, nil), []string{"g1"}))
	require.ErrorIs(t, err, dataset.ErrLengthMismatch)
}

func TestIndex(t *testing.T) {
	d, err := dataset.New([]string{"a", "b", "c"})
	require.NoError(t, err)

	i, err := d.Index("b")
	require.NoError(t, err)
	require.Equal(t, 1, i)

	_, err = d.Index("z")
	require.ErrorIs(t, err, dataset.ErrUnknownCell)
}

// ---------------------------------------------------------------------------
// Annotations and lookups
// ---------------------------------------------------------------------------

func TestObs_MissingKeyListsAvailable(t *testing.T) {
	d, err := dataset.New(cellNames(3),
		dataset.WithObs("pt", []float64{0, 0.5, 1}),
		dataset.WithObs("size", []float64{1, 1, 1}),
	)
	require.NoError(t, err)

	_, err = d.Obs("palantir")
	require.ErrorIs(t, err, dataset.ErrMissingObs)
	require.Contains(t, err.Error(), `"palantir"`)
	require.Contains(t, err.Error(), "[pt size]") // sorted key list

	got, err := d.Obs("pt")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.5, 1}, got)
}

func TestCatObs_RoundTrip(t *testing.T) {
	d, err := dataset.New(cellNames(3))
	require.NoError(t, err)

	require.NoError(t, d.SetCatObs("clusters", []string{"x", "y", "x"}))
	got, err := d.CatObs("clusters")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y", "x"}, got)

	_, err = d.CatObs("absent")
	require.ErrorIs(t, err, dataset.ErrMissingCatObs)
}

func TestObsm_RowCountEnforced(t *testing.T) {
	d, err := dataset.New(cellNames(3))
	require.NoError(t, err)

	err = d.SetObsm("fate", mat.NewDense(2, 2, nil))
	require.ErrorIs(t, err, dataset.ErrLengthMismatch)

	require.NoError(t, d.SetObsm("fate", mat.NewDense(3, 2, nil)))
	m, err := d.Obsm("fate")
	require.NoError(t, err)
	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
}

func TestUns(t *testing.T) {
	d, err := dataset.New(cellNames(2))
	require.NoError(t, err)

	_, ok := d.Uns("eig")
	require.False(t, ok)

	d.SetUns("eig", 42)
	v, ok := d.Uns("eig")
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestConnectivities(t *testing.T) {
	names := cellNames(4)
	g := ringGraph(t, 4)

	d, err := dataset.New(names, dataset.WithConnectivities(g, 2))
	require.NoError(t, err)

	got, err := d.Connectivities()
	require.NoError(t, err)
	require.Equal(t, 4, got.Rows())
	require.Equal(t, 2, d.NNeighbors())

	bare, err := dataset.New(names)
	require.NoError(t, err)
	_, err = bare.Connectivities()
	require.ErrorIs(t, err, dataset.ErrNoConnectivities)
}

func TestExpressionAndLayers(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	d, err := dataset.New(cellNames(3),
		dataset.WithExpression(x, []string{"g1", "g2"}),
		dataset.WithLayer("spliced", mat.NewDense(3, 2, nil)),
	)
	require.NoError(t, err)

	got, genes, err := d.Expression()
	require.NoError(t, err)
	require.Equal(t, []string{"g1", "g2"}, genes)
	require.Equal(t, 4.0, got.At(1, 1))

	_, err = d.Layer("unspliced")
	require.ErrorIs(t, err, dataset.ErrMissingLayer)
	require.Contains(t, err.Error(), "[spliced]")

	// Layer column count must match the expression matrix.
	_, err = dataset.New(cellNames(3),
		dataset.WithExpression(x, []string{"g1", "g2"}),
		dataset.WithLayer("bad", mat.NewDense(3, 5, nil)),
	)
	require.ErrorIs(t, err, dataset.ErrLengthMismatch)
}

// ---------------------------------------------------------------------------
// Clone
// ---------------------------------------------------------------------------

func TestClone_NoSharedMemory(t *testing.T) {
	d, err := dataset.New(cellNames(4),
		dataset.WithConnectivities(ringGraph(t, 4), 2),
		dataset.WithObs("pt", []float64{0, 1, 2, 3}),
		dataset.WithCatObs("clusters", []string{"x", "x", "y", "y"}),
	)
	require.NoError(t, err)
	require.NoError(t, d.SetObsm("fate", mat.NewDense(4, 2, nil)))

	cp := d.Clone()

	pt, err := d.Obs("pt")
	require.NoError(t, err)
	pt[0] = 99

	cpPT, err := cp.Obs("pt")
	require.NoError(t, err)
	require.Equal(t, 0.0, cpPT[0])

	m, err := d.Obsm("fate")
	require.NoError(t, err)
	m.Set(0, 0, 7)

	cpM, err := cp.Obsm("fate")
	require.NoError(t, err)
	require.Equal(t, 0.0, cpM.At(0, 0))
}

// ---------------------------------------------------------------------------
// Gob transport
// ---------------------------------------------------------------------------

func TestDataset_GobRoundTrip(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	d, err := dataset.New(cellNames(4),
		dataset.WithConnectivities(ringGraph(t, 4), 2),
		dataset.WithObs("pt", []float64{0, 0.25, 0.5, 1}),
		dataset.WithCatObs("clusters", []string{"x", "x", "y", "y"}),
		dataset.WithExpression(x, []string{"g1", "g2"}),
		dataset.WithLayer("spliced", mat.NewDense(4, 2, nil)),
	)
	require.NoError(t, err)
	require.NoError(t, d.SetObsm("fate", mat.NewDense(4, 2, []float64{1, 0, 1, 0, 0, 1, 0, 1})))
	d.SetUns("eig", 42) // derived cache, deliberately not transported

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(d))

	got := new(dataset.Dataset)
	require.NoError(t, gob.NewDecoder(&buf).Decode(got))

	require.Equal(t, d.Names(), got.Names())

	pt, err := got.Obs("pt")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.25, 0.5, 1}, pt)

	cl, err := got.CatObs("clusters")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "x", "y", "y"}, cl)

	fate, err := got.Obsm("fate")
	require.NoError(t, err)
	require.Equal(t, 1.0, fate.At(0, 0))

	conn, err := got.Connectivities()
	require.NoError(t, err)
	require.Equal(t, 4, conn.Rows())
	require.Equal(t, 2, got.NNeighbors())

	gx, genes, err := got.Expression()
	require.NoError(t, err)
	require.Equal(t, []string{"g1", "g2"}, genes)
	require.Equal(t, 8.0, gx.At(3, 1))

	_, err = got.Layer("spliced")
	require.NoError(t, err)

	_, ok := got.Uns("eig")
	require.False(t, ok)

	// Name lookup must work on the decoded copy.
	i, err := got.Index("c")
	require.NoError(t, err)
	require.Equal(t, 2, i)
}

func TestNilReceiver(t *testing.T) {
	var d *dataset.Dataset

	require.Equal(t, 0, d.N())
	require.Nil(t, d.Clone())
	_, err := d.Obs("pt")
	require.True(t, errors.Is(err, dataset.ErrNilDataset))
}
