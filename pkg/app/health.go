package app

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// HandleHealth returns data about the health of myself and the live stream.
// output example:
//  {"NumGoroutines":9,"HeapAllocatedMB":3,"SysMemoryMB":12,"Version":"0.3.01+20261001",
//   "ProgLang":"go1.21.5","Uptime":"1h2m3s","LastSample":"2026-10-01T10:20:30+02:00","Streaming":true}
func (app *App) HandleHealth() fiber.Handler {
	host, _ := os.Hostname()

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request health")

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		healthData := struct {
			NumGoroutines   int
			HeapAllocatedMB uint64
			SysMemoryMB     uint64
			Version         string
			ProgLang        string
			HostName        string
			Uptime          string
			LastSample      *time.Time `json:",omitempty"`
			Streaming       bool
		}{
			NumGoroutines:   runtime.NumGoroutine(),
			HeapAllocatedMB: m.Alloc >> 20,
			SysMemoryMB:     m.Sys >> 20,
			Version:         VERSION,
			ProgLang:        runtime.Version(),
			HostName:        host,
			Uptime:          time.Since(app.started).Round(time.Second).String(),
		}

		if r, ok := app.Last(); ok {
			healthData.LastSample = &r.Time
			// the device sends a sample every second
			healthData.Streaming = time.Since(r.Time) < 5*time.Second
		}

		ctx.Status(http.StatusOK)
		return ctx.JSON(healthData)
	}
}
