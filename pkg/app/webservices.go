package app

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// runWebServer starts the applications web server and listens for web requests.
//  It's designed to run in a separate go function to not block the main go function.
//  e.g.: go runWebServer()
//  See app.startServices()
func (app *App) runWebServer() {
	debug.InfoLog.Printf("web server listens on %s", app.urlParsed.Host)
	if err := app.web.Listen(app.urlParsed.Host); err != nil {
		debug.ErrorLog.Print(err)
	}
}

// HandleData returns the last live record.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		r, ok := app.Last()
		if !ok {
			return ctx.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no live data received yet"})
		}
		return ctx.JSON(r)
	}
}
