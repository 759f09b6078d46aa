package scene

import (
	"fmt"
	"strconv"
)

// Radix selects how a port value overlay renders its value.
type Radix int

const (
	RadixHex Radix = iota
	RadixDec
	RadixSignedDec
	RadixBin
)

func (r Radix) String() string {
	switch r {
	case RadixDec:
		return "Decimal"
	case RadixSignedDec:
		return "Signed"
	case RadixBin:
		return "Binary"
	default:
		return "Hex"
	}
}

// Radixes lists the selectable display radixes in menu order.
func Radixes() []Radix {
	return []Radix{RadixHex, RadixDec, RadixSignedDec, RadixBin}
}

// Format renders v as a width-bit value in the radix.
func (r Radix) Format(v uint64, width int) string {
	switch r {
	case RadixDec:
		return strconv.FormatUint(v, 10)
	case RadixSignedDec:
		return strconv.FormatInt(signExtend(v, width), 10)
	case RadixBin:
		return "0b" + fmt.Sprintf("%0*b", width, v)
	default:
		return "0x" + fmt.Sprintf("%0*x", (width+3)/4, v)
	}
}

func signExtend(v uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(v)
	}
	if v&(1<<uint(width-1)) != 0 {
		v |= ^uint64(0) << uint(width)
	}
	return int64(v)
}
