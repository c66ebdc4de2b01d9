package oximeter

import (
	"context"
	"fmt"

	"github.com/womat/debug"

	"oxlog/pkg/protocol"
)

// isLiveData matches frames carrying the current readings.
func isLiveData(f []byte) bool {
	return response(protocol.LiveDataResponse, protocol.LiveDataMinSize)(f) && f[1] == protocol.LiveDataCurrent
}

// Live streams the current readings to emit until ctx is done or emit fails.
// The device stops streaming unless it receives a keepalive frame regularly.
func (h *Handler) Live(ctx context.Context, emit func(Record) error) error {
	if err := h.send(protocol.Build(protocol.LiveDataCommand, 0x00)); err != nil {
		return fmt.Errorf("send live data request: %w", err)
	}
	debug.InfoLog.Print("live data started")

	keepAlive := protocol.Build(protocol.KeepAliveCommand)
	for cycle := 1; ; cycle++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.receive(); err != nil {
			return fmt.Errorf("receive live data: %w", err)
		}

		for f, ok := h.frames.Pop(); ok; f, ok = h.frames.Pop() {
			if !h.accept(f, isLiveData) {
				continue
			}

			r := Record{Time: h.config.now(), Pulse: f[3], SpO2: f[4]}
			debug.DebugLog.Printf("live pulse %d spo2 %d", r.Pulse, r.SpO2)
			if err := emit(r); err != nil {
				return err
			}
		}

		if cycle%h.config.KeepAliveInterval == 0 {
			if err := h.send(keepAlive); err != nil {
				return fmt.Errorf("send keepalive: %w", err)
			}
		}
	}
}
