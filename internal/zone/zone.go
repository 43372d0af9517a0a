// Package zone classifies an analog stick deflection into one of eight
// angular octants or the center dead band.
//
// Octant 0 is centered straight up and octants proceed clockwise in 1/8 turn
// steps. A small angular guard band separates neighbouring octants; a stick
// resting inside it belongs to no zone at all, which is distinct from Center.
package zone

import (
	"fmt"
	"math"
)

// Zone is a discrete stick direction.
type Zone int8

const (
	// None is reported while the stick sits inside a guard band.
	None Zone = -1
	// Center is reported while the stick is inside the dead band.
	Center Zone = 8
)

// Count is the number of real zones: eight octants plus Center.
const Count = 9

// Octant returns the zone for octant i, 0 <= i < 8.
func Octant(i int) Zone {
	if i < 0 || i > 7 {
		panic(fmt.Sprintf("zone: octant %d out of range", i))
	}
	return Zone(i)
}

// IsOctant reports whether z is one of the eight directional zones.
func (z Zone) IsOctant() bool {
	return z >= 0 && z < 8
}

// Valid reports whether z is an octant or Center.
func (z Zone) Valid() bool {
	return z.IsOctant() || z == Center
}

// Index returns the table index of z: octants map to 0..7 and Center to 8.
// It panics for None; callers must check Valid first.
func (z Zone) Index() int {
	if !z.Valid() {
		panic("zone: Index called on None")
	}
	return int(z)
}

// All lists every valid zone, Center first, in the order the engine scans them.
var All = [Count]Zone{Center, 0, 1, 2, 3, 4, 5, 6, 7}

var octantNames = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (z Zone) String() string {
	switch {
	case z == None:
		return "none"
	case z == Center:
		return "center"
	case z.IsOctant():
		return octantNames[z]
	default:
		return fmt.Sprintf("zone(%d)", int8(z))
	}
}

// Polar is a stick deflection in polar form.
type Polar struct {
	Vel float64 // 0 .. 1
	Dir float64 // 0 .. 1 turn, 0 is up, clockwise
}

// ToPolar converts a stick vector to its clamped magnitude and direction.
func ToPolar(x, y float64) Polar {
	if x == 0 && y == 0 {
		return Polar{}
	}
	vel := clamp(math.Hypot(x, y), 0, 1)
	// atan2(x, y) puts 0 at the top and grows clockwise.
	dir := math.Atan2(x, y) / (2 * math.Pi)
	if dir < 0 {
		dir += 1
	}
	return Polar{Vel: vel, Dir: clamp(dir, 0, 1)}
}

// Classifier holds the tunable classification thresholds.
type Classifier struct {
	// DeadBand is the radius below which the stick is Center.
	DeadBand float64
	// GuardDegrees is the total angular gap between two octants.
	GuardDegrees float64
}

// Default is the classifier used when nothing is configured.
var Default = Classifier{DeadBand: 0.6, GuardDegrees: 5}

// Classify returns the zone for the stick vector (x, y) using Default.
func Classify(x, y float64) Zone {
	return Default.Classify(x, y)
}

// Classify returns the zone for the stick vector (x, y).
func (c Classifier) Classify(x, y float64) Zone {
	return c.FromPolar(ToPolar(x, y))
}

// FromPolar returns the zone for an already converted deflection.
func (c Classifier) FromPolar(p Polar) Zone {
	if p.Vel < c.DeadBand {
		return Center
	}
	pad := (c.GuardDegrees / 360) / 2
	// Shift by half an octant so every octant starts on a multiple of 1/8.
	dir := math.Mod(p.Dir+1.0/16, 1)
	for k := 0; k < 8; k++ {
		from := float64(k) / 8
		to := float64(k+1) / 8
		if from+pad <= dir && dir <= to-pad {
			return Zone(k)
		}
	}
	return None
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
