package oximeter

import (
	"context"
	"fmt"

	"github.com/womat/debug"

	"oxlog/pkg/protocol"
)

// EncodeDeviceID returns id as the device stores it: at most 7 ASCII bytes,
// right padded with spaces.
func EncodeDeviceID(id string) ([protocol.DeviceIDSize]byte, error) {
	var b [protocol.DeviceIDSize]byte

	if len(id) > protocol.DeviceIDSize {
		return b, ErrDeviceIDTooLong
	}
	for i := 0; i < len(id); i++ {
		if id[i] > 0x7F {
			return b, ErrDeviceIDNotASCII
		}
	}

	n := copy(b[:], id)
	for i := n; i < len(b); i++ {
		b[i] = protocol.DeviceIDPadding
	}
	return b, nil
}

// SetDeviceID writes the device id property. Any set property response
// confirms it.
func (h *Handler) SetDeviceID(ctx context.Context, id string) error {
	b, err := EncodeDeviceID(id)
	if err != nil {
		return err
	}

	payload := append([]byte{byte(protocol.DeviceIDProperty)}, b[:]...)
	if err = h.send(protocol.Build(protocol.SetPropertyCommand, payload...)); err != nil {
		return fmt.Errorf("send device id: %w", err)
	}

	if _, err = h.await(ctx, response(protocol.SetPropertyResponse, 1)); err != nil {
		return fmt.Errorf("receive device id confirmation: %w", err)
	}

	debug.InfoLog.Printf("device id set to %q", string(b[:]))
	return nil
}
