package dag

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Matrix is a dense adjacency matrix. A non-zero entry at [i][j] is an
// edge i -> j.
type Matrix [][]float64

func New(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func FromRows(rows [][]float64) (Matrix, error) {
	for i, row := range rows {
		if len(row) != len(rows) {
			return nil, fmt.Errorf("adjacency matrix is not square: row %d has %d entries, want %d",
				i, len(row), len(rows))
		}
	}
	return Matrix(rows), nil
}

// Load reads an adjacency matrix from a YAML file holding a list of rows
func Load(path string) (Matrix, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows [][]float64
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("cannot parse adjacency matrix: %s", err)
	}
	return FromRows(rows)
}

func (m Matrix) Marshal() ([]byte, error) {
	return yaml.Marshal([][]float64(m))
}

func (m Matrix) Dim() int {
	return len(m)
}

func (m Matrix) Clone() Matrix {
	c := New(len(m))
	for i := range m {
		copy(c[i], m[i])
	}
	return c
}

func (m Matrix) Transpose() Matrix {
	t := New(len(m))
	for i := range m {
		for j := range m[i] {
			t[j][i] = m[i][j]
		}
	}
	return t
}

// EdgeCount sums the entries, which counts edges for 0/1 matrices
func (m Matrix) EdgeCount() float64 {
	sum := 0.0
	for i := range m {
		for j := range m[i] {
			sum += m[i][j]
		}
	}
	return sum
}

func (m Matrix) Equal(other Matrix) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		for j := range m[i] {
			if m[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// key is a canonical string form used to deduplicate matrix samples
func (m Matrix) key() string {
	var b strings.Builder
	for i := range m {
		for j := range m[i] {
			b.WriteString(strconv.FormatFloat(m[i][j], 'g', -1, 64))
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Intervene simulates an intervention by removing all incoming edges of the
// intervened nodes. With copyGraph the receiver is left untouched.
func (m Matrix) Intervene(idxs []int, copyGraph bool) Matrix {
	if len(idxs) == 0 {
		return m
	}
	out := m
	if copyGraph {
		out = m.Clone()
	}
	for i := range out {
		for _, j := range idxs {
			out[i][j] = 0
		}
	}
	return out
}

func (m Matrix) mul(other Matrix) Matrix {
	n := len(m)
	out := New(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if m[i][k] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return out
}

func identity(n int) Matrix {
	m := New(n)
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m
}
