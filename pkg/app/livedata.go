package app

import (
	"context"
	"encoding/json"
	"io"

	"oxlog/pkg/mqtt"
	"oxlog/pkg/oximeter"

	"github.com/womat/debug"
)

// LiveData streams the current readings of the oximeter as CSV to w until ctx is done.
// Each record is kept for the data web service and sent to the mqtt broker.
func (app *App) LiveData(ctx context.Context, w io.Writer) error {
	h, err := app.connect(ctx)
	if err != nil {
		return err
	}

	if err = app.startServices(); err != nil {
		return err
	}
	defer app.stopServices()

	out, err := newRecordWriter(w)
	if err != nil {
		return err
	}

	return h.Live(ctx, func(r oximeter.Record) error {
		if err := out.Write(r); err != nil {
			return err
		}

		app.setLast(r)
		app.metrics.SetLive(r.Pulse, r.SpO2)
		app.sendMQTT(app.config.MQTT.Topic, r)
		return nil
	})
}

func (app *App) setLast(r oximeter.Record) {
	app.last.Lock()
	defer app.last.Unlock()
	app.last.record = &r
}

// Last returns the last live record, false if there is none yet.
func (app *App) Last() (oximeter.Record, bool) {
	app.last.RLock()
	defer app.last.RUnlock()

	if app.last.record == nil {
		return oximeter.Record{}, false
	}
	return *app.last.record, true
}

// sendMQTT sends the record to the mqtt broker.
func (app *App) sendMQTT(topic string, r oximeter.Record) {
	if !app.mqtt.Connected() {
		return
	}

	b, err := json.Marshal(r)
	if err != nil {
		debug.ErrorLog.Printf("sendMQTT marshal: %v", err)
		return
	}

	app.mqtt.Publish(mqtt.Message{
		Qos:      0,
		Retained: true,
		Topic:    topic,
		Payload:  b,
	})
}
