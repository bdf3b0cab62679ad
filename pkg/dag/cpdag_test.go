package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumerateDAGs_fullyDetermined(t *testing.T) {
	dags, err := EnumerateDAGs(chain(), 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(dags))
	assert.True(t, dags[0].Equal(chain()))
}

func TestEnumerateDAGs_singleUndeterminedEdge(t *testing.T) {
	// 0 - 1 undetermined, no other edges: both orientations are members
	cp := Matrix{
		{0, 1},
		{1, 0},
	}
	dags, err := EnumerateDAGs(cp, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(dags))
	for _, d := range dags {
		assert.True(t, d.IsDAG())
		assert.Equal(t, 1.0, d.EdgeCount())
	}
	assert.False(t, dags[0].Equal(dags[1]))
}

func TestEnumerateDAGs_colliderRejected(t *testing.T) {
	// determined edge 0 -> 2, undetermined 1 - 2: orienting 1 -> 2 would
	// create a new collider at 2, only 2 -> 1 remains
	cp := Matrix{
		{0, 0, 1},
		{0, 0, 1},
		{0, 1, 0},
	}
	dags, err := EnumerateDAGs(cp, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(dags))
	assert.Equal(t, 1.0, dags[0][2][1])
	assert.Equal(t, 0.0, dags[0][1][2])
	assert.Equal(t, 1.0, dags[0][0][2])
}

func TestEnumerateDAGs_noValidOrientation(t *testing.T) {
	// determined 0 -> 1 -> 2 with 0 - 2 undetermined: orienting 0 -> 2
	// creates a collider at 2, orienting 2 -> 0 closes a cycle. Only the
	// determined subgraph survives.
	cp := Matrix{
		{0, 1, 1},
		{0, 0, 1},
		{1, 0, 0},
	}
	dags, err := EnumerateDAGs(cp, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(dags))
	assert.True(t, dags[0].Equal(chain()))
}

func TestEnumerateDAGs_sampleCap(t *testing.T) {
	// three undetermined edges in a line allow several orientations
	cp := Matrix{
		{0, 1, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 0, 1},
		{0, 0, 1, 0},
	}
	dags, err := EnumerateDAGs(cp, 2)
	assert.NoError(t, err)
	assert.LessOrEqual(t, len(dags), 2)
	assert.GreaterOrEqual(t, len(dags), 1)
	for _, d := range dags {
		assert.True(t, d.IsDAG())
	}
}

func TestEnumerateDAGs_allMembersAreDAGs(t *testing.T) {
	cp := Matrix{
		{0, 1, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 0, 1},
		{0, 0, 1, 0},
	}
	dags, err := EnumerateDAGs(cp, 0)
	assert.NoError(t, err)
	for _, d := range dags {
		assert.True(t, d.IsDAG())
		// every oriented edge comes from the CPDAG skeleton
		for i := range d {
			for j := range d[i] {
				if d[i][j] != 0 {
					assert.NotZero(t, cp[i][j])
				}
			}
		}
	}
}

func TestDedupe(t *testing.T) {
	mats := []Matrix{chain(), chain(), triangle(), chain().Intervene([]int{1}, true)}

	unique, weights, err := Dedupe(mats)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(unique))
	assert.Equal(t, 2, len(weights))

	total := 0.0
	for _, w := range weights {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// the duplicated chain carries double weight
	found := false
	for i, u := range unique {
		if u.Equal(chain()) {
			assert.InDelta(t, 2.0/3.0, weights[i], 1e-9)
			found = true
		}
	}
	assert.True(t, found)
}

func TestDedupe_allCyclic(t *testing.T) {
	_, _, err := Dedupe([]Matrix{triangle()})
	assert.Error(t, err)
}
