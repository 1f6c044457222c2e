package maxplus_test

import (
	"errors"
	"testing"

	"github.com/sdf3go/fsmsadf/fsmerr"
	"github.com/sdf3go/fsmsadf/maxplus"
)

func TestIdentityMultiply(t *testing.T) {
	m := maxplus.NewMatrix(2, 2)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	m.Set(1, 0, maxplus.NegInf)
	m.Set(1, 1, 3)

	id := maxplus.Identity(2)
	prod, err := m.Multiply(id)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if prod.At(i, j) != m.At(i, j) {
				t.Errorf("at (%d,%d): got %v want %v", i, j, prod.At(i, j), m.At(i, j))
			}
		}
	}
}

func TestMultiplyDimensionMismatch(t *testing.T) {
	a := maxplus.NewMatrix(2, 3)
	b := maxplus.NewMatrix(2, 2)
	_, err := a.Multiply(b)
	var dm *fsmerr.DimensionMismatch
	if !errors.As(err, &dm) {
		t.Fatalf("expected DimensionMismatch, got %v", err)
	}
}

func TestMaximumPointwise(t *testing.T) {
	a := maxplus.NewMatrix(1, 2)
	a.Set(0, 0, 1)
	a.Set(0, 1, maxplus.NegInf)
	b := maxplus.NewMatrix(1, 2)
	b.Set(0, 0, 0)
	b.Set(0, 1, 4)

	out, err := a.Maximum(b)
	if err != nil {
		t.Fatal(err)
	}
	if out.At(0, 0) != 1 || out.At(0, 1) != 4 {
		t.Errorf("got row %v %v", out.At(0, 0), out.At(0, 1))
	}
}

func TestSubmatrixReordersAndSelects(t *testing.T) {
	m := maxplus.NewMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, float64(i*3+j))
		}
	}
	sub, err := m.Submatrix([]int{2, 0}, []int{1})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Rows() != 2 || sub.Cols() != 1 {
		t.Fatalf("unexpected shape %dx%d", sub.Rows(), sub.Cols())
	}
	if sub.At(0, 0) != 7 || sub.At(1, 0) != 1 {
		t.Errorf("got %v, %v want 7, 1", sub.At(0, 0), sub.At(1, 0))
	}
}

func TestNegInfAbsorption(t *testing.T) {
	if got := maxplus.Plus(maxplus.NegInf, 5); got != maxplus.NegInf {
		t.Errorf("expected NegInf absorption, got %v", got)
	}
	if got := maxplus.Max(maxplus.NegInf, 3); got != 3 {
		t.Errorf("expected Max to return the finite operand, got %v", got)
	}
}

func TestUnitVector(t *testing.T) {
	v := maxplus.Unit(3, 1)
	want := []maxplus.MPTime{maxplus.NegInf, 0, maxplus.NegInf}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("at %d: got %v want %v", i, v[i], want[i])
		}
	}
}
