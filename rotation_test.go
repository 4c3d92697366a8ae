package rdke

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/geometry/md3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func vectorsEqual(a, b md3.Vec) bool {
	return scalar.EqualWithinAbs(a.X, b.X, 1e-6) && scalar.EqualWithinAbs(a.Y, b.Y, 1e-6) && scalar.EqualWithinAbs(a.Z, b.Z, 1e-6)
}

func TestR3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r3 := R3(x)
	if r3.At(2, 2) != 1 {
		t.Fatal("expected R3.At(2, 2) = 1")
	}
	if r3.At(2, 0) != r3.At(2, 1) || r3.At(0, 2) != r3.At(1, 2) || r3.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R3")
	}
	if r3.At(1, 1) != r3.At(0, 0) || r3.At(0, 0) != c {
		t.Fatal("expected R3 cosines misplaced")
	}
	if r3.At(0, 1) != -r3.At(1, 0) || r3.At(0, 1) != s {
		t.Fatal("expected R3 sines misplaced")
	}
	// Orthonormal: R3(x)·R3(-x) = I
	var I mat.Dense
	I.Mul(R3(x), R3(-x))
	if !mat.EqualApprox(&I, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-15) {
		t.Fatalf("R3(x)R3(-x) is not the identity:\n%v", mat.Formatted(&I))
	}
}

func TestPCI2PCPF(t *testing.T) {
	R := md3.Vec{X: 7000e3, Y: 0, Z: 1000e3}
	// The body has turned by 90 degrees: the inertial X axis is now along -Y.
	if got := PCI2PCPF(R, 90); !vectorsEqual(got, md3.Vec{X: 0, Y: -7000e3, Z: 1000e3}) {
		t.Fatalf("unexpected body-fixed vector %+v", got)
	}
	for _, θ := range []float64{0, 12.5, 180, 280.46} {
		back := PCPF2PCI(PCI2PCPF(R, θ), θ)
		if !vectorsEqual(back, R) {
			t.Fatalf("θ=%f: round trip %+v", θ, back)
		}
	}
}

func TestCartesian2LLR(t *testing.T) {
	for _, tt := range []struct {
		R              md3.Vec
		lat, long, rad float64
	}{
		{md3.Vec{X: 1}, 0, 0, 1},
		{md3.Vec{Y: 2}, 0, 90, 2},
		{md3.Vec{X: -3}, 0, 180, 3},
		{md3.Vec{Z: 4}, 90, 0, 4},
		{md3.Vec{X: 1, Y: -1, Z: math.Sqrt2}, 45, -45, 2},
	} {
		lat, long, rad, err := Cartesian2LLR(tt.R)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinAbs(lat, tt.lat, 1e-9) || !scalar.EqualWithinAbs(long, tt.long, 1e-9) || !scalar.EqualWithinAbs(rad, tt.rad, 1e-12) {
			t.Fatalf("%+v: got (%f, %f, %f) expected (%f, %f, %f)", tt.R, lat, long, rad, tt.lat, tt.long, tt.rad)
		}
	}
	if _, _, _, err := Cartesian2LLR(md3.Vec{}); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}
}
