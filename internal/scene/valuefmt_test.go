package scene

import "testing"

func TestFormatByRadix(t *testing.T) {
	cases := []struct {
		radix Radix
		v     uint64
		width int
		want  string
	}{
		{RadixHex, 0xab, 8, "0xab"},
		{RadixHex, 0x5, 16, "0x0005"},
		{RadixHex, 0x5, 6, "0x05"},
		{RadixDec, 42, 8, "42"},
		{RadixBin, 0b101, 4, "0b0101"},
		{RadixSignedDec, 0xff, 8, "-1"},
		{RadixSignedDec, 0x7f, 8, "127"},
		{RadixSignedDec, 0xfffffffc, 32, "-4"},
	}
	for _, c := range cases {
		if got := c.radix.Format(c.v, c.width); got != c.want {
			t.Errorf("%s.Format(%#x, %d) = %q, want %q", c.radix, c.v, c.width, got, c.want)
		}
	}
}

func TestRadixesCoverAllVariants(t *testing.T) {
	seen := map[Radix]bool{}
	for _, r := range Radixes() {
		seen[r] = true
	}
	for _, r := range []Radix{RadixHex, RadixDec, RadixSignedDec, RadixBin} {
		if !seen[r] {
			t.Errorf("%s missing from the menu order", r)
		}
	}
}
