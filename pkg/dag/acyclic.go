package dag

import (
	"math"
	"math/rand"
)

// IsDAG reports whether the graph has no directed cycle
func (m Matrix) IsDAG() bool {
	n := len(m)
	inDegree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m[i][j] != 0 {
				inDegree[j]++
			}
		}
	}

	queue := make([]int, 0, n)
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for j := 0; j < n; j++ {
			if m[node][j] != 0 {
				inDegree[j]--
				if inDegree[j] == 0 {
					queue = append(queue, j)
				}
			}
		}
	}
	return visited == n
}

// Penalty is the NOTEARS acyclicity penalty trace(expm(A)) - d. It is zero
// exactly when the graph is acyclic and grows with cycle weight.
func (m Matrix) Penalty() float64 {
	exp := expm(m)
	trace := 0.0
	for i := range exp {
		trace += exp[i][i]
	}
	return trace - float64(len(m))
}

// expm computes the matrix exponential by scaling and squaring with a
// truncated Taylor series, plenty for the small graphs handled here
func expm(m Matrix) Matrix {
	n := len(m)

	norm := 0.0
	for i := 0; i < n; i++ {
		rowSum := 0.0
		for j := 0; j < n; j++ {
			rowSum += math.Abs(m[i][j])
		}
		if rowSum > norm {
			norm = rowSum
		}
	}

	squarings := 0
	scale := 1.0
	for norm*scale > 0.5 {
		scale /= 2
		squarings++
	}

	scaled := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			scaled[i][j] = m[i][j] * scale
		}
	}

	result := identity(n)
	term := identity(n)
	for k := 1; k <= 18; k++ {
		term = term.mul(scaled)
		factor := 1.0 / float64(k)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				term[i][j] *= factor
				result[i][j] += term[i][j]
			}
		}
	}

	for s := 0; s < squarings; s++ {
		result = result.mul(result)
	}
	return result
}

// MaximalAcyclicSubgraph approximates the maximal acyclic subgraph of a
// directed graph, dropping at most half of the edges. Random node orders
// are sampled and the best of the order-respecting subgraphs is kept.
func MaximalAcyclicSubgraph(m Matrix, samples int) Matrix {
	n := len(m)
	best := New(n)

	for s := 0; s < samples; s++ {
		order := rand.Perm(n)

		forward := New(n)
		backward := New(n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if m[i][j] == 0 {
					continue
				}
				if order[i] > order[j] {
					forward[i][j] = m[i][j]
				} else if order[i] < order[j] {
					backward[i][j] = m[i][j]
				}
			}
		}

		candidate := forward
		if backward.EdgeCount() >= forward.EdgeCount() {
			candidate = backward
		}
		if candidate.EdgeCount() > best.EdgeCount() {
			best = candidate
		}
	}
	return best
}
