package rdke

import (
	"strconv"

	"github.com/soypat/geometry/md3"
)

// Field is the index of a quantity in the StateVector.
type Field int

// State vector layout. Every producer and consumer goes through these names.
const (
	SimTime Field = iota
	PosX
	PosY
	PosZ
	VelX
	VelY
	VelZ
	AccX
	AccY
	AccZ
	// Attitude fields are placeholders: no attitude dynamics are integrated.
	AttQX
	AttQY
	AttQZ
	AttQW
	AttRateX
	AttRateY
	AttRateZ
	AttAccX
	AttAccY
	AttAccZ
	Mass
	EpochJ2000
	AltitudePCPF
	LatitudePCPF
	LongitudePCPF
	GravityAcc
	GASTAngle
	VelocityMagnitude
	AtmosDensity
	AeroForceX
	AeroForceY
	AeroForceZ
	DragCoefficient
	BallisticCoefficient
	// NumFields is the length of the state vector.
	NumFields
)

var fieldNames = [NumFields]string{
	SimTime:              "sim_time_s",
	PosX:                 "pos_x_iframe",
	PosY:                 "pos_y_iframe",
	PosZ:                 "pos_z_iframe",
	VelX:                 "vel_x_iframe",
	VelY:                 "vel_y_iframe",
	VelZ:                 "vel_z_iframe",
	AccX:                 "acc_x_iframe",
	AccY:                 "acc_y_iframe",
	AccZ:                 "acc_z_iframe",
	AttQX:                "att_q_x",
	AttQY:                "att_q_y",
	AttQZ:                "att_q_z",
	AttQW:                "att_q_w",
	AttRateX:             "att_rate_x_rads",
	AttRateY:             "att_rate_y_rads",
	AttRateZ:             "att_rate_z_rads",
	AttAccX:              "att_acc_x_radss",
	AttAccY:              "att_acc_y_radss",
	AttAccZ:              "att_acc_z_radss",
	Mass:                 "sc_mass_kg",
	EpochJ2000:           "j2000_s",
	AltitudePCPF:         "altitude_pcpf_m",
	LatitudePCPF:         "latitude_pcpf_deg",
	LongitudePCPF:        "longitude_pcpf_deg",
	GravityAcc:           "grav_acc_mss",
	GASTAngle:            "gast_deg",
	VelocityMagnitude:    "vel_magn_iframe_ms",
	AtmosDensity:         "atmos_density_kgmmm",
	AeroForceX:           "aero_force_x_iframe_n",
	AeroForceY:           "aero_force_y_iframe_n",
	AeroForceZ:           "aero_force_z_iframe_n",
	DragCoefficient:      "drag_coeff",
	BallisticCoefficient: "ballistic_coeff_kgmm",
}

// String returns the archive column name of this field.
func (f Field) String() string {
	if f < 0 || f >= NumFields {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// Header returns the archive column names in state vector order.
func Header() []string {
	h := make([]string, NumFields)
	copy(h, fieldNames[:])
	return h
}

// StateVector is the full simulation state. It is a value type: assignment copies.
type StateVector [NumFields]float64

func (x *StateVector) vec(f Field) md3.Vec {
	return md3.Vec{X: x[f], Y: x[f+1], Z: x[f+2]}
}

func (x *StateVector) setVec(f Field, v md3.Vec) {
	x[f], x[f+1], x[f+2] = v.X, v.Y, v.Z
}

// Position returns the inertial position in meters.
func (x StateVector) Position() md3.Vec { return x.vec(PosX) }

// Velocity returns the inertial velocity in meters per second.
func (x StateVector) Velocity() md3.Vec { return x.vec(VelX) }

// Acceleration returns the finite difference acceleration.
func (x StateVector) Acceleration() md3.Vec { return x.vec(AccX) }

// AeroForce returns the archived aerodynamic force.
func (x StateVector) AeroForce() md3.Vec { return x.vec(AeroForceX) }

// SetPosition sets the inertial position.
func (x *StateVector) SetPosition(v md3.Vec) { x.setVec(PosX, v) }

// SetVelocity sets the inertial velocity.
func (x *StateVector) SetVelocity(v md3.Vec) { x.setVec(VelX, v) }

// SetAcceleration sets the acceleration.
func (x *StateVector) SetAcceleration(v md3.Vec) { x.setVec(AccX, v) }

// SetAeroForce sets the aerodynamic force.
func (x *StateVector) SetAeroForce(v md3.Vec) { x.setVec(AeroForceX, v) }

// Record formats the state as one archive row.
func (x StateVector) Record() []string {
	rec := make([]string, NumFields)
	for i, v := range x {
		rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return rec
}

// addScaled returns x + k*d over every field.
func (x StateVector) addScaled(k float64, d StateVector) StateVector {
	for i := range x {
		x[i] += k * d[i]
	}
	return x
}
