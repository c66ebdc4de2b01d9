package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// VERSION holds the version information: major.minor.patch, the date after
// the + is the first of the release month.
const (
	VERSION = "0.3.01+20261001"
	MODULE  = "oxlog"
)

// HandleVersion returns the application version and the usb ids of the oximeter.
func (app *App) HandleVersion() fiber.Handler {
	device := fmt.Sprintf("%04x:%04x", app.config.USB.Vendor, app.config.USB.Product)

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request version")

		return ctx.JSON(fiber.Map{
			"version": VERSION,
			"module":  MODULE,
			"about":   Version(),
			"device":  device,
		})
	}
}

// Version is the get application version as string.
func Version() string {
	return strings.TrimSpace(MODULE + " V" + strings.Split(VERSION, "+")[0])
}
