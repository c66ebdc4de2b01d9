package app

import (
	"encoding/csv"
	"io"
	"strconv"

	"oxlog/pkg/oximeter"
)

// timeFormat is the timestamp format of the CSV output.
const timeFormat = "2006-01-02 15:04:05"

var csvHeader = []string{"timestamp", "pulse", "spo2"}

// recordWriter writes records as CSV lines. Every line is flushed, live data
// must show up immediately.
type recordWriter struct {
	w *csv.Writer
}

// newRecordWriter writes the CSV header to w.
func newRecordWriter(w io.Writer) (*recordWriter, error) {
	rw := &recordWriter{w: csv.NewWriter(w)}
	return rw, rw.write(csvHeader)
}

func (rw *recordWriter) Write(r oximeter.Record) error {
	return rw.write([]string{
		r.Time.Format(timeFormat),
		strconv.Itoa(int(r.Pulse)),
		strconv.Itoa(int(r.SpO2)),
	})
}

func (rw *recordWriter) write(line []string) error {
	if err := rw.w.Write(line); err != nil {
		return err
	}
	rw.w.Flush()
	return rw.w.Error()
}
