package engine

import "fmt"

// FormatMMSS renders seconds as mm:ss, clamping negatives to zero.
func FormatMMSS(seconds float64) string {
	s := int(seconds)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
