package delta

// Manual decodes one channel of a manually recorded file.
//
// Every chunk starts with a seed value which is a sample itself. Each following
// nibble is a signed delta: bit 3 is the sign, bits 0-2 the magnitude. A nibble
// of 0xF is an invalid measurement. The device keeps applying later deltas to the
// invalid value, so Manual does as well.
type Manual struct {
	// value is the running sample value.
	value byte

	target  int
	samples []byte
}

// NewManual returns a decoder which stops after target samples.
func NewManual(target int) *Manual {
	return &Manual{
		target:  target,
		samples: make([]byte, 0, target),
	}
}

// Decode decodes one chunk. Bit 0 of signs restores the top bit of seed, bit i+1
// the top bit of deltas[i]. Samples beyond the target are dropped.
func (d *Manual) Decode(signs uint32, seed byte, deltas []byte) {
	if bit(signs, 0) {
		seed |= 0x80
	}
	d.value = seed
	d.emit(d.value)

	for i, b := range deltas {
		top, bottom := nibbles(b, bit(signs, i+1))
		for _, n := range [2]byte{top, bottom} {
			switch {
			case n == 0x0F:
				d.value = Invalid
			case n&0x08 != 0:
				d.value -= n & 0x07
			default:
				d.value += n & 0x07
			}
			d.emit(d.value)
		}
	}
}

func (d *Manual) emit(v byte) {
	if d.Done() {
		return
	}
	d.samples = append(d.samples, v)
}

// Done reports whether the target number of samples is decoded.
func (d *Manual) Done() bool {
	return len(d.samples) >= d.target
}

// Samples returns the decoded samples.
func (d *Manual) Samples() []byte {
	return d.samples
}
