package app

import (
	"context"
	"io"

	"oxlog/pkg/oximeter"

	"github.com/womat/debug"
)

// ReadFile reads a recorded file of the oximeter and writes it as CSV to w.
func (app *App) ReadFile(ctx context.Context, w io.Writer, index int) error {
	if index < 1 {
		return &oximeter.FileIndexError{Index: index}
	}

	h, err := app.connect(ctx)
	if err != nil {
		return err
	}

	records, err := h.ReadFile(ctx, index)
	if err != nil {
		return err
	}
	debug.InfoLog.Printf("read %d records of file %d", len(records), index)

	out, err := newRecordWriter(w)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err = out.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// SetDeviceID writes the device id. An invalid id is rejected before the device is opened.
func (app *App) SetDeviceID(ctx context.Context, id string) error {
	if _, err := oximeter.EncodeDeviceID(id); err != nil {
		return err
	}

	h, err := app.connect(ctx)
	if err != nil {
		return err
	}
	return h.SetDeviceID(ctx, id)
}
