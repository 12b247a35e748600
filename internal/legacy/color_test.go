package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/ewa-cli/internal/model"
)

func TestStatusFromRGB(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		r, g, b uint8
		want    model.Status
	}{
		{"pure red", 255, 0, 0, model.StatusRed},
		{"dark red", 210, 40, 40, model.StatusRed},
		{"pure yellow", 255, 255, 0, model.StatusYellow},
		{"amber", 230, 210, 60, model.StatusYellow},
		{"office green", 0, 176, 80, model.StatusGreen},
		{"bright green", 40, 220, 40, model.StatusGreen},
		{"white", 255, 255, 255, model.StatusUnknown},
		{"black", 0, 0, 0, model.StatusUnknown},
		{"blue", 40, 40, 220, model.StatusUnknown},
		{"grey", 128, 128, 128, model.StatusUnknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, statusFromRGB(tc.r, tc.g, tc.b))
		})
	}
}

func TestStatusFromARGB(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		argb string
		want model.Status
	}{
		{"argb red", "FFFF0000", model.StatusRed},
		{"rgb only", "FF0000", model.StatusRed},
		{"office green", "FF00B050", model.StatusGreen},
		{"yellow", "FFFFFF00", model.StatusYellow},
		{"white fill", "FFFFFFFF", model.StatusUnknown},
		{"empty", "", model.StatusUnknown},
		{"too short", "F00", model.StatusUnknown},
		{"not hex", "FFZZZZZZ", model.StatusUnknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, statusFromARGB(tc.argb))
		})
	}
}
