// Package delta decodes the sample files recorded by the oximeter.
//
// Samples are transmitted as 4 bit deltas against a base value. Since only the
// first byte of a frame may have its top bit set, the top bit of each data byte is
// cleared and sent separately in a sign bitmap at the front of the frame, 7 bits
// per bitmap byte, lowest bit first. Only the top nibble of a byte needs it, the
// bottom nibble is never affected by the framing.
package delta

// Invalid marks a sample the device could not measure.
const Invalid = 0xFF

// nibbles splits b into its top and bottom nibble, restoring the top bit of the
// top nibble if sign is set.
func nibbles(b byte, sign bool) (top, bottom byte) {
	top = (b >> 4) & 0x0F
	if sign {
		top |= 0x08
	}
	return top, b & 0x0F
}

// bit reports whether bit i of the sign bitmap is set.
func bit(signs uint32, i int) bool {
	return signs&(1<<uint(i)) != 0
}
