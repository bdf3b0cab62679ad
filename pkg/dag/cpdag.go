package dag

import (
	"fmt"
	"math/rand"
)

const maxUndeterminedEdges = 30

// EnumerateDAGs expands a CPDAG into the DAGs of its Markov equivalence
// class. Edges present in both directions are undetermined; each
// orientation that creates neither a new collider nor a cycle yields a
// member DAG. samples caps the number of DAGs returned, zero means all.
func EnumerateDAGs(cp Matrix, samples int) ([]Matrix, error) {
	n := cp.Dim()

	// edges marked in both directions are the undetermined ones
	cycle := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if cp[i][j] != 0 && cp[j][i] != 0 {
				cycle[i][j] = cp[i][j]
			}
		}
	}

	if cycle.EdgeCount() == 0 {
		out := cp
		if !cp.IsDAG() {
			out = MaximalAcyclicSubgraph(cp, 10)
		}
		return []Matrix{out}, nil
	}

	determined := New(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			determined[i][j] = cp[i][j] - cycle[i][j]
		}
	}
	if !determined.IsDAG() {
		determined = MaximalAcyclicSubgraph(determined, 1000)
	}

	inDegree := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if determined[i][j] != 0 {
				inDegree[j]++
			}
		}
	}

	// one pair per undetermined edge, lower triangular representative
	var pairs [][2]int
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			if cycle[i][j] != 0 {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	if len(pairs) > maxUndeterminedEdges {
		return nil, fmt.Errorf("CPDAG has %d undetermined edges, refusing to enumerate more than %d",
			len(pairs), maxUndeterminedEdges)
	}

	maxDAGs := 1 << len(pairs)
	if samples <= 0 || samples > maxDAGs {
		samples = maxDAGs
	}

	var dags []Matrix
	for _, mask := range rand.Perm(maxDAGs) {
		if len(dags) >= samples {
			break
		}

		heads := make([]int, len(pairs))
		tails := make([]int, len(pairs))
		for k, pair := range pairs {
			if mask>>k&1 == 1 {
				tails[k], heads[k] = pair[0], pair[1]
			} else {
				tails[k], heads[k] = pair[1], pair[0]
			}
		}

		// reject orientations pointing two edges at one node, or pointing
		// at a node that already has a determined parent
		collider := false
		seen := make(map[int]bool, len(heads))
		for _, head := range heads {
			if seen[head] || inDegree[head] > 0 {
				collider = true
				break
			}
			seen[head] = true
		}
		if collider {
			continue
		}

		candidate := determined.Clone()
		for k := range pairs {
			candidate[tails[k]][heads[k]] = 1
		}
		if candidate.IsDAG() {
			dags = append(dags, candidate)
		}
	}

	// every orientation closed a cycle, keep the determined edges only
	if len(dags) == 0 {
		dags = append(dags, determined)
	}
	return dags, nil
}

// Dedupe drops cyclic and duplicated matrices from a sample and returns
// the unique DAGs with their normalized sample weights
func Dedupe(mats []Matrix) ([]Matrix, []float64, error) {
	var unique []Matrix
	var counts []int
	index := map[string]int{}
	total := 0

	for _, m := range mats {
		if !m.IsDAG() {
			continue
		}
		total++
		k := m.key()
		if i, ok := index[k]; ok {
			counts[i]++
			continue
		}
		index[k] = len(unique)
		unique = append(unique, m)
		counts = append(counts, 1)
	}

	if total == 0 {
		return nil, nil, fmt.Errorf("no acyclic adjacency matrix in the sample")
	}

	weights := make([]float64, len(unique))
	for i, c := range counts {
		weights[i] = float64(c) / float64(total)
	}
	return unique, weights, nil
}
