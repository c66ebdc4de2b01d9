package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"oxlog/pkg/app/config"
	"oxlog/pkg/metrics"
	"oxlog/pkg/mqtt"
	"oxlog/pkg/oximeter"
	"oxlog/pkg/port"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/womat/debug"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Webserver.URL parameter,
	// nil if the web server is disabled
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// registry holds the metrics served on /metrics
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// open returns the HID report stream of the oximeter
	open func() (io.ReadWriteCloser, error)

	// mu guards oximeter, Close may be called while a session runs
	mu sync.Mutex
	// oximeter is the session with the device, nil until connected
	oximeter *oximeter.Handler

	// last is the last live record
	last struct {
		sync.RWMutex
		record *oximeter.Record
	}

	started time.Time
}

// New checks the Web server URL and initialize the main app structure
func New(config *config.Config) (*App, error) {
	var u *url.URL
	if config.Webserver.URL != "" {
		var err error
		if u, err = url.Parse(config.Webserver.URL); err != nil {
			debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
			return &App{}, err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &App{
		config:    config,
		urlParsed: u,

		web:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		mqtt:     mqtt.New(),
		registry: reg,
		metrics:  metrics.New(reg),
		started:  time.Now(),
	}
	app.open = app.openPort
	return app, nil
}

// openPort opens the configured USB HID device.
func (app *App) openPort() (io.ReadWriteCloser, error) {
	return port.Open(app.config.USB.Vendor, app.config.USB.Product, app.config.USB.ReadTimeout)
}

// connect opens the device and runs the handshake.
func (app *App) connect(ctx context.Context) (*oximeter.Handler, error) {
	dev, err := app.open()
	if err != nil {
		debug.ErrorLog.Printf("can't open oximeter: %v", err)
		return nil, err
	}

	h := oximeter.New(
		oximeter.WithReadBudget(app.config.USB.ReadBudget),
		oximeter.WithMetrics(app.metrics),
	)
	if err = h.Connect(dev); err != nil {
		_ = dev.Close()
		return nil, err
	}

	app.mu.Lock()
	app.oximeter = h
	app.mu.Unlock()

	if err = h.Handshake(ctx); err != nil {
		return nil, fmt.Errorf("handshake: %w", err)
	}
	return h, nil
}

// startServices starts the mqtt client and the web server, if configured.
func (app *App) startServices() error {
	if err := app.mqtt.Connect(app.config.MQTT.Connection, MODULE); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}
	go app.mqtt.Service()

	if app.urlParsed != nil {
		// initDefaultRoutes must be called before the web server listens
		app.initDefaultRoutes()
		go app.runWebServer()
	}

	return nil
}

// stopServices stops what startServices started.
func (app *App) stopServices() {
	_ = app.mqtt.Disconnect()
	if app.urlParsed != nil {
		if err := app.web.Shutdown(); err != nil {
			debug.ErrorLog.Printf("web server shutdown: %v", err)
		}
	}
}

// Close closes the device. It unblocks a pending read of a running session.
func (app *App) Close() error {
	var err error

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.oximeter != nil {
		err = app.oximeter.Close()
		app.oximeter = nil
	}
	return err
}
