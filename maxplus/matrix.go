package maxplus

import "github.com/sdf3go/fsmsadf/fsmerr"

// Operation name constants used when reporting fsmerr.DimensionMismatch,
// mirroring the teacher's matrix package's tagged-error convention.
const (
	opMaximum   = "Maximum"
	opMultiply  = "Multiply"
	opSubmatrix = "Submatrix"
)

// Vector is a dense max-plus column vector.
type Vector []MPTime

// NewVector returns a length-n vector filled with NegInf.
func NewVector(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = NegInf
	}
	return v
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Unit returns the length-n unit basis vector e_i (NegInf elsewhere, 0 at i).
// This is the symbolic token e_{i_k} of §4.4.
func Unit(n, i int) Vector {
	v := NewVector(n)
	v[i] = 0
	return v
}

// Maximum returns the pointwise maximum of u and v (⊕).
func (v Vector) Maximum(u Vector) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = Max(v[i], u[i])
	}
	return out
}

// Plus returns v ⊗ c: every entry of v shifted by the scalar c (§4.4's
// "f ⊗ execTime(a, s)").
func (v Vector) Plus(c MPTime) Vector {
	out := make(Vector, len(v))
	for i, t := range v {
		out[i] = Plus(t, c)
	}
	return out
}

// Matrix is a dense Rows()×Cols() array of MPTime values in max-plus
// algebra. It may be square (N×N, the common strongly-consistent case) or
// rectangular (R×C, required for weakly-consistent scenarios per §4.4).
type Matrix struct {
	rows, cols int
	data       [][]MPTime
}

// NewMatrix allocates an rows×cols matrix filled with NegInf.
func NewMatrix(rows, cols int) Matrix {
	data := make([][]MPTime, rows)
	for i := range data {
		row := make([]MPTime, cols)
		for j := range row {
			row[j] = NegInf
		}
		data[i] = row
	}
	return Matrix{rows: rows, cols: cols, data: data}
}

// Identity returns the n×n max-plus identity matrix: 0 on the diagonal,
// −∞ elsewhere.
func Identity(n int) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i] = 0
	}
	return m
}

// Zero returns the n×n matrix entirely filled with −∞ (the ⊕-neutral
// matrix).
func Zero(n int) Matrix {
	return NewMatrix(n, n)
}

// Constant returns the n×n matrix with every entry set to c.
func Constant(n int, c MPTime) Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.data[i][j] = c
		}
	}
	return m
}

// Rows reports the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols reports the number of columns.
func (m Matrix) Cols() int { return m.cols }

// At returns the entry at (i, j).
func (m Matrix) At(i, j int) MPTime { return m.data[i][j] }

// Set assigns the entry at (i, j).
func (m Matrix) Set(i, j int, v MPTime) { m.data[i][j] = v }

// Row returns a copy of row i as a Vector.
func (m Matrix) Row(i int) Vector {
	out := make(Vector, m.cols)
	copy(out, m.data[i])
	return out
}

// SetRow overwrites row i with v (len(v) must equal m.Cols()).
func (m Matrix) SetRow(i int, v Vector) {
	copy(m.data[i], v)
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		copy(out.data[i], m.data[i])
	}
	return out
}

// Maximum returns the pointwise maximum (⊕) of m and other. Both matrices
// must share the same shape, or fsmerr.DimensionMismatch is returned.
func (m Matrix) Maximum(other Matrix) (Matrix, error) {
	if m.rows != other.rows || m.cols != other.cols {
		return Matrix{}, &fsmerr.DimensionMismatch{
			Op: opMaximum, LHSRows: m.rows, LHSCols: m.cols, RHSRows: other.rows, RHSCols: other.cols,
		}
	}
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			out.data[i][j] = Max(m.data[i][j], other.data[i][j])
		}
	}
	return out, nil
}

// Multiply returns m ⊗ other (max-plus matrix product): m is p×q, other is
// q×r, the result is p×r. Returns fsmerr.DimensionMismatch if m.Cols() !=
// other.Rows().
func (m Matrix) Multiply(other Matrix) (Matrix, error) {
	if m.cols != other.rows {
		return Matrix{}, &fsmerr.DimensionMismatch{
			Op: opMultiply, LHSRows: m.rows, LHSCols: m.cols, RHSRows: other.rows, RHSCols: other.cols,
		}
	}
	out := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			acc := NegInf
			for k := 0; k < m.cols; k++ {
				acc = Max(acc, Plus(m.data[i][k], other.data[k][j]))
			}
			out.data[i][j] = acc
		}
	}
	return out, nil
}

// MultiplyVector returns m ⊗ v (m is p×q, v has length q, result has
// length p).
func (m Matrix) MultiplyVector(v Vector) Vector {
	out := make(Vector, m.rows)
	for i := 0; i < m.rows; i++ {
		acc := NegInf
		for k := 0; k < m.cols; k++ {
			acc = Max(acc, Plus(m.data[i][k], v[k]))
		}
		out[i] = acc
	}
	return out
}

// Submatrix selects the subset of rows and columns given by index, in the
// order the indices are listed (§4.3 "submatrix"). Out-of-range indices
// report fsmerr.DimensionMismatch.
func (m Matrix) Submatrix(rows, cols []int) (Matrix, error) {
	for _, r := range rows {
		if r < 0 || r >= m.rows {
			return Matrix{}, &fsmerr.DimensionMismatch{Op: opSubmatrix, LHSRows: m.rows, LHSCols: m.cols, RHSRows: len(rows), RHSCols: len(cols)}
		}
	}
	for _, c := range cols {
		if c < 0 || c >= m.cols {
			return Matrix{}, &fsmerr.DimensionMismatch{Op: opSubmatrix, LHSRows: m.rows, LHSCols: m.cols, RHSRows: len(rows), RHSCols: len(cols)}
		}
	}
	out := NewMatrix(len(rows), len(cols))
	for i, r := range rows {
		for j, c := range cols {
			out.data[i][j] = m.data[r][c]
		}
	}
	return out, nil
}

// MaxEntry returns the maximum finite-or-NegInf entry in the whole matrix,
// or NegInf for a matrix with no rows/columns.
func (m Matrix) MaxEntry() MPTime {
	acc := NegInf
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			acc = Max(acc, m.data[i][j])
		}
	}
	return acc
}
