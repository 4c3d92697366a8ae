package rdke

import (
	"testing"

	"github.com/soypat/geometry/md3"
)

func TestHeader(t *testing.T) {
	h := Header()
	if len(h) != int(NumFields) || NumFields != 34 {
		t.Fatalf("expected 34 fields, got %d (header %d)", NumFields, len(h))
	}
	seen := map[string]Field{}
	for i, name := range h {
		if name == "" {
			t.Fatalf("field %d has no name", i)
		}
		if prev, dup := seen[name]; dup {
			t.Fatalf("fields %d and %d share the name %s", prev, i, name)
		}
		seen[name] = Field(i)
	}
	for f, exp := range map[Field]string{
		SimTime:       "sim_time_s",
		PosX:          "pos_x_iframe",
		VelX:          "vel_x_iframe",
		AccX:          "acc_x_iframe",
		AltitudePCPF:  "altitude_pcpf_m",
		LatitudePCPF:  "latitude_pcpf_deg",
		LongitudePCPF: "longitude_pcpf_deg",
		AtmosDensity:  "atmos_density_kgmmm",
	} {
		if f.String() != exp {
			t.Fatalf("field %d: expected %s got %s", f, exp, f)
		}
	}
	if NumFields.String() != "field(34)" {
		t.Fatalf("out of range field name %s", NumFields)
	}
}

func TestStateVectorAccessors(t *testing.T) {
	var x StateVector
	x.SetPosition(md3.Vec{X: 1, Y: 2, Z: 3})
	x.SetVelocity(md3.Vec{X: 4, Y: 5, Z: 6})
	x.SetAcceleration(md3.Vec{X: 7, Y: 8, Z: 9})
	x.SetAeroForce(md3.Vec{X: 10, Y: 11, Z: 12})
	if x[PosX] != 1 || x[PosZ] != 3 || x[VelY] != 5 || x[AccZ] != 9 || x[AeroForceX] != 10 || x[AeroForceZ] != 12 {
		t.Fatalf("fields misplaced: %v", x)
	}
	if x.Position() != (md3.Vec{X: 1, Y: 2, Z: 3}) || x.Velocity() != (md3.Vec{X: 4, Y: 5, Z: 6}) {
		t.Fatal("accessors do not match setters")
	}
	y := x
	y[PosX] = 42
	if x[PosX] != 1 {
		t.Fatal("state vectors must not alias")
	}
	rec := x.Record()
	if len(rec) != int(NumFields) || rec[PosY] != "2" || rec[SimTime] != "0" {
		t.Fatalf("unexpected record %v", rec)
	}
}
