// Package nearest cross references a glider mission against other profile
// collections: SHARKweb station visits and Argo floats. Matches are nearest
// in time within a rectangular spatiotemporal window.
package nearest

import (
	"fmt"
	"math"
	"time"
)

// kmPerDegree is the usual flat-earth scale of one degree of latitude.
const kmPerDegree = 111

// FormatDifference renders a (Δlongitude, Δlatitude, Δtime) offset as three
// readable strings: east/west, north/south and later/earlier. Degrees are
// converted to kilometers with the fixed-radius approximation, longitude
// scaled by the cosine of the latitude difference. Magnitudes are rounded
// to one decimal and never negative; zero maps to "N", "E" and "later".
func FormatDifference(degEast, degNorth float64, ahead time.Duration) (east, north, timeDiff string) {
	kmNorth := round1(kmPerDegree * degNorth)
	kmEast := round1(kmPerDegree * degEast * math.Cos(degNorth*math.Pi/180))
	hoursAhead := round1(float64(ahead.Nanoseconds()) / (1e9 * 60 * 60))

	east = directed(kmEast, "km", "E", "W")
	north = directed(kmNorth, "km", "N", "S")
	timeDiff = directed(hoursAhead, "hours", "later", "earlier")
	return east, north, timeDiff
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// directed picks the direction word by sign, zero counting as positive.
// math.Abs also normalizes negative zero, which %.1f would otherwise print
// as "-0.0".
func directed(value float64, unit, positive, negative string) string {
	direction := positive
	if value < 0 {
		direction = negative
	}
	return fmt.Sprintf("%.1f %s %s", math.Abs(value), unit, direction)
}
