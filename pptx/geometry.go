package pptx

import "strconv"

// The reference canvas is the 16:9 widescreen default. Coordinates are
// normalized against it per axis because the canvas is not square.
const (
	EMUPerInch      = 914400
	CanvasWidthEMU  = 9144000
	CanvasHeightEMU = 5143500
)

// EMUToX maps a native horizontal length to percent of canvas width.
// Malformed geometry degrades to 0 rather than aborting extraction.
func EMUToX(emu string) float64 {
	return float64(parseEMU(emu)) / CanvasWidthEMU * 100
}

// EMUToY maps a native vertical length to percent of canvas height.
func EMUToY(emu string) float64 {
	return float64(parseEMU(emu)) / CanvasHeightEMU * 100
}

// XToEMU is the inverse of EMUToX.
func XToEMU(pct float64) int64 {
	return int64(pct / 100 * CanvasWidthEMU)
}

// YToEMU is the inverse of EMUToY.
func YToEMU(pct float64) int64 {
	return int64(pct / 100 * CanvasHeightEMU)
}

func parseEMU(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
