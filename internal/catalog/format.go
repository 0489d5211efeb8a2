package catalog

import (
	"math"
	"strconv"
)

// Scaled converts a stored integer into its physical value.
func Scaled(value int32, scale int8) float64 {
	return float64(value) * math.Pow10(int(scale))
}

// Unscale converts a physical value back into the stored integer, truncating
// toward zero.
func Unscale(value float64, scale int8) int32 {
	x := value * math.Pow10(-int(scale))
	// Absorb binary representation error so 0.29 becomes 29, not 28.
	if x >= 0 {
		x += 1e-9
	} else {
		x -= 1e-9
	}
	return int32(x)
}

// FormatValue renders raw the way the register is displayed: signedness
// applied, then as many decimals as the scale removes.
func FormatValue(d Descriptor, raw uint16) string {
	v := d.Value(raw)
	if d.Scale >= 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(Scaled(v, d.Scale), 'f', -int(d.Scale), 64)
}
