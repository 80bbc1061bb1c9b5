package main

import "math"

// Angle is a fixed-point rotation where FullTurn is one revolution.
// 0 points at 12 o'clock and values increase clockwise.
type Angle int32

const FullTurn Angle = 0x10000

// HourAngle maps an hour of day onto the 12-hour dial.
// Hours 0 and 12 both land on the top of the face.
func HourAngle(hour int) Angle {
	h := hour % 12
	if h < 0 {
		h += 12
	}
	return Angle(int64(FullTurn) * int64(h) / 12)
}

// Radians converts the fixed-point angle for use with the math package
func (a Angle) Radians() float64 {
	return 2 * math.Pi * float64(a) / float64(FullTurn)
}
