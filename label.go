package fat

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const volumeLabelLen = 11

var labelCaser = cases.Upper(language.Und)

// sanitizeLabel trims surrounding whitespace, upper-cases s with
// golang.org/x/text/cases (Unicode case mapping, not limited to ASCII; no
// width folding is applied) and pads or
// truncates it to the 11-byte OEM volume label field. A label longer than
// 11 bytes after folding is truncated silently, per §7: this is not an
// ErrInvalidArgument case.
func sanitizeLabel(label string) [volumeLabelLen]byte {
	folded := labelCaser.String(strings.TrimSpace(label))
	var out [volumeLabelLen]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[:], folded)
	return out
}
