// SPDX-License-Identifier: MIT

// Package matrix: graph-structure checks on the sparsity pattern.
// IsConnected treats entries as undirected edges (weak connectivity of a
// biased graph); IsIrreducible checks strong connectivity of the directed
// chain via forward and backward reachability from node 0.

package matrix

// IsConnected reports whether the symmetrised sparsity pattern of c forms a
// single weakly connected component. Entry values are ignored; only the
// pattern matters. An empty (0-row) matrix is considered connected.
// Deterministic BFS in ascending index order. O(rows + nnz).
func IsConnected(c *CSR) (bool, error) {
	if c == nil {
		return false, ErrNilMatrix
	}
	if c.rows != c.cols {
		return false, ErrNonSquare
	}
	n := c.rows
	if n == 0 {
		return true, nil
	}

	// Build the reverse pattern once so each BFS step sees both directions.
	rev := reversePattern(c)

	visited := make([]bool, n)
	queue := make([]int, 0, n)
	queue = append(queue, 0)
	visited[0] = true
	seen := 1
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for k := c.indptr[u]; k < c.indptr[u+1]; k++ {
			if v := c.indices[k]; !visited[v] {
				visited[v] = true
				seen++
				queue = append(queue, v)
			}
		}
		for _, v := range rev[u] {
			if !visited[v] {
				visited[v] = true
				seen++
				queue = append(queue, v)
			}
		}
	}

	return seen == n, nil
}

// IsIrreducible reports whether the directed graph of c is strongly
// connected, i.e. whether the Markov chain it encodes is irreducible.
// A chain is strongly connected iff every node is reachable from node 0 and
// node 0 is reachable from every node; both sides are checked with a
// deterministic BFS. O(rows + nnz).
func IsIrreducible(c *CSR) (bool, error) {
	if c == nil {
		return false, ErrNilMatrix
	}
	if c.rows != c.cols {
		return false, ErrNonSquare
	}
	n := c.rows
	if n == 0 {
		return true, nil
	}

	if !reachesAll(n, func(u int, visit func(int)) {
		for k := c.indptr[u]; k < c.indptr[u+1]; k++ {
			visit(c.indices[k])
		}
	}) {
		return false, nil
	}

	rev := reversePattern(c)

	return reachesAll(n, func(u int, visit func(int)) {
		for _, v := range rev[u] {
			visit(v)
		}
	}), nil
}

// reversePattern returns, for each node, the list of predecessors in c's
// pattern, each list in ascending order (rows are scanned in index order).
func reversePattern(c *CSR) [][]int {
	rev := make([][]int, c.rows)
	for i := 0; i < c.rows; i++ {
		for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
			j := c.indices[k]
			rev[j] = append(rev[j], i)
		}
	}

	return rev
}

// reachesAll runs a BFS from node 0 over the supplied neighbor iterator and
// reports whether all n nodes were visited.
func reachesAll(n int, neighbors func(u int, visit func(int))) bool {
	visited := make([]bool, n)
	queue := []int{0}
	visited[0] = true
	seen := 1
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		neighbors(u, func(v int) {
			if !visited[v] {
				visited[v] = true
				seen++
				queue = append(queue, v)
			}
		})
	}

	return seen == n
}
