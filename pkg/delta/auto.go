package delta

import "github.com/womat/debug"

// Auto decodes one channel of an automatically recorded file.
//
// Each data byte holds two downward deltas from the current base value. A top
// nibble of 0xF marks a base value update instead: the bottom nibble of the first
// such byte sets the high nibble of the base value, the next one the low nibble.
// Two 0xF nibbles outside a base value update are an invalid measurement and
// stand for two Invalid samples.
type Auto struct {
	// base is the value the deltas are subtracted from.
	base byte
	// settingLow is true after the high nibble of a new base value was set.
	settingLow bool

	target  int
	samples []byte
}

// NewAuto returns a decoder which stops after target samples.
func NewAuto(target int) *Auto {
	return &Auto{
		target:  target,
		samples: make([]byte, 0, target),
	}
}

// Decode decodes one chunk of data bytes with its sign bitmap. Bit i of signs
// restores the top bit of data[i]. Data left over once the target is reached is
// discarded.
func (d *Auto) Decode(signs uint32, data []byte) {
	for i, b := range data {
		if d.Done() {
			return
		}

		top, bottom := nibbles(b, bit(signs, i))

		if top == 0x0F {
			if bottom == 0x0F && !d.settingLow {
				d.emit(Invalid)
				d.emit(Invalid)
				continue
			}

			if d.settingLow {
				d.base |= bottom
			} else {
				d.base = bottom << 4
			}
			d.settingLow = !d.settingLow
			debug.TraceLog.Printf("base value %d (complete: %v)", d.base, !d.settingLow)
			continue
		}

		d.emit(d.base - top)
		// a bottom nibble of 0xF carries no sample at all
		if bottom != 0x0F {
			d.emit(d.base - bottom)
		}
	}
}

func (d *Auto) emit(v byte) {
	if d.Done() {
		return
	}
	d.samples = append(d.samples, v)
}

// Done reports whether the target number of samples is decoded.
func (d *Auto) Done() bool {
	return len(d.samples) >= d.target
}

// Samples returns the decoded samples.
func (d *Auto) Samples() []byte {
	return d.samples
}
