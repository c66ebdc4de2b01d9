package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"oxlog/pkg/app"
	"oxlog/pkg/app/config"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
)

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()
	// the fatal log below still writes to the debug file
	defer closeDebugFile(cfg)

	// -v is the usb vendor id
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "read live data and recorded files of a USB pulse oximeter",
		Version: app.VERSION,
		Description: "Talk to a pulse oximeter over USB HID and print pulse rate and oxygen saturation as CSV." +
			"\n Live data can additionally be published to a mqtt broker and served by a web server.",
		UsageText: "oxlog [global options] live-data|read-file <index>|set-device-id <id>" +
			"\n\nEXAMPLE:" +
			"\n\tstream the live readings and serve the last one on port 4000" +
			"\n\t\toxlog --web http://0.0.0.0:4000 live-data" +
			"\n\tsave the second automatically recorded file" +
			"\n\t\toxlog read-file 2 > night.csv",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: config.DefaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.Debug, Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
			&cli.StringFlag{Name: "usb-vendor", Aliases: []string{"v"}, Destination: &cfg.Flag.Vendor, Usage: "usb vendor `ID` of the oximeter (default 0x28e9)"},
			&cli.StringFlag{Name: "usb-product", Aliases: []string{"p"}, Destination: &cfg.Flag.Product, Usage: "usb product `ID` of the oximeter (default 0x028a)"},
			&cli.DurationFlag{Name: "read-timeout", Destination: &cfg.Flag.ReadTimeout, Usage: "give up if the oximeter is silent for `DURATION` (default wait forever)"},
			&cli.StringFlag{Name: "web", Destination: &cfg.Flag.Web, Usage: "serve live data web services on `URL`"},
			&cli.StringFlag{Name: "mqtt", Destination: &cfg.Flag.MQTT, Usage: "publish live data to the mqtt `BROKER`"},
		},
		Before: func(*cli.Context) error {
			if err := cfg.LoadConfig(); err != nil {
				return err
			}
			debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "live-data",
				Usage: "print the current readings until interrupted",
				Action: func(*cli.Context) error {
					return run(cfg, func(ctx context.Context, a *app.App) error {
						err := a.LiveData(ctx, os.Stdout)
						if ctx.Err() != nil {
							// live data runs until interrupted
							return nil
						}
						return err
					})
				},
			},
			{
				Name:      "read-file",
				Usage:     "print a recorded file",
				ArgsUsage: "<index>",
				Action: func(c *cli.Context) error {
					index, err := strconv.Atoi(c.Args().First())
					if err != nil || c.NArg() != 1 {
						return fmt.Errorf("read-file needs exactly one numeric file index")
					}
					return run(cfg, func(ctx context.Context, a *app.App) error {
						return a.ReadFile(ctx, os.Stdout, index)
					})
				},
			},
			{
				Name:      "set-device-id",
				Usage:     "set the device id (at most 7 ASCII characters)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("set-device-id needs exactly one id")
					}
					return run(cfg, func(ctx context.Context, a *app.App) error {
						return a.SetDeviceID(ctx, c.Args().First())
					})
				},
			},
		},
	}

	// we expect to have more command line flags in the future - sort them
	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	err := cliApp.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app.MODULE, err)
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
	return
}

// closeDebugFile closes the debug file unless it is stderr or stdout.
func closeDebugFile(cfg *config.Config) {
	if cfg.Debug.File == nil || cfg.Debug.File == os.Stderr || cfg.Debug.File == os.Stdout {
		return
	}
	debug.InfoLog.Printf("closing debug file %s", cfg.Debug.FileString)
	_ = cfg.Debug.File.Close()
}

// run creates the app and calls f. An exit signal cancels the context of f and
// closes the device, a pending read returns within the port poll interval.
// A second signal terminates the process.
func run(cfg *config.Config, f func(context.Context, *app.App) error) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		debug.InfoLog.Printf("closing app %s", app.Version())
		_ = a.Close()
	}()

	// capture exit signals to ensure resources are released on exit.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		// restore the default behavior for a second signal
		stop()
		_ = a.Close()
	}()

	debug.InfoLog.Printf("starting app %s", app.Version())
	err = f(ctx, a)
	if err != nil && ctx.Err() != nil {
		// closing the device fails the pending read
		debug.InfoLog.Printf("got exit signal: %v", err)
		return ctx.Err()
	}
	return err
}
