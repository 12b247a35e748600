package legacy

import (
	"strconv"

	"github.com/sells-group/ewa-cli/internal/model"
)

// statusFromRGB maps a sampled color to a traffic-light status using
// thresholds tuned for the report generator's palette. Anything outside
// the three bands stays unknown and the cell is skipped.
func statusFromRGB(r, g, b uint8) model.Status {
	switch {
	case r > 200 && g < 80 && b < 80:
		return model.StatusRed
	case r > 200 && g > 200 && b < 80:
		return model.StatusYellow
	case r < 80 && g > 200 && b < 80:
		return model.StatusGreen
	default:
		return model.StatusUnknown
	}
}

// statusFromARGB parses a spreadsheet fill color ("FF00B050" or
// "00B050") and maps it through the RGB thresholds.
func statusFromARGB(argb string) model.Status {
	if len(argb) < 6 {
		return model.StatusUnknown
	}
	hex := argb[len(argb)-6:]

	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return model.StatusUnknown
	}
	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return model.StatusUnknown
	}
	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return model.StatusUnknown
	}

	return statusFromRGB(uint8(r), uint8(g), uint8(b))
}
