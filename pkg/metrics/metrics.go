// Package metrics holds the prometheus metrics of the oximeter session.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all prometheus metrics of oxlog.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// transport metrics
	ReportsRead    prometheus.Counter
	ReportsWritten prometheus.Counter

	// frame metrics
	FramesReceived  *prometheus.CounterVec
	ChecksumErrors  prometheus.Counter
	FramesDiscarded prometheus.Counter

	// sample metrics
	Samples        *prometheus.CounterVec
	InvalidSamples *prometheus.CounterVec

	// live readings
	Pulse prometheus.Gauge
	SpO2  prometheus.Gauge
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		ReportsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "oxlog_hid_reports_read_total",
			Help: "Total number of HID reports read from the oximeter",
		}),
		ReportsWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "oxlog_hid_reports_written_total",
			Help: "Total number of HID reports written to the oximeter",
		}),

		FramesReceived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oxlog_frames_received_total",
			Help: "Total number of checksum-valid frames received, by response code",
		}, []string{"code"}),
		ChecksumErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "oxlog_frame_checksum_errors_total",
			Help: "Total number of frames dropped because of a wrong checksum",
		}),
		FramesDiscarded: f.NewCounter(prometheus.CounterOpts{
			Name: "oxlog_frames_discarded_total",
			Help: "Total number of valid frames which did not answer the pending request",
		}),

		Samples: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oxlog_samples_total",
			Help: "Total number of samples decoded, by channel",
		}, []string{"channel"}),
		InvalidSamples: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oxlog_invalid_samples_total",
			Help: "Total number of samples the device marked as invalid, by channel",
		}, []string{"channel"}),

		Pulse: f.NewGauge(prometheus.GaugeOpts{
			Name: "oxlog_pulse_bpm",
			Help: "Last live pulse rate in beats per minute",
		}),
		SpO2: f.NewGauge(prometheus.GaugeOpts{
			Name: "oxlog_spo2_percent",
			Help: "Last live oxygen saturation in percent",
		}),
	}
}

// RecordReportRead increments the reports read counter
func (m *Metrics) RecordReportRead() {
	if m == nil {
		return
	}
	m.ReportsRead.Inc()
}

// RecordReportWritten increments the reports written counter
func (m *Metrics) RecordReportWritten() {
	if m == nil {
		return
	}
	m.ReportsWritten.Inc()
}

// RecordFrame counts a checksum-valid frame by the name of its code
func (m *Metrics) RecordFrame(code string) {
	if m == nil {
		return
	}
	m.FramesReceived.WithLabelValues(code).Inc()
}

// RecordChecksumError increments the checksum errors counter
func (m *Metrics) RecordChecksumError() {
	if m == nil {
		return
	}
	m.ChecksumErrors.Inc()
}

// RecordDiscarded increments the discarded frames counter
func (m *Metrics) RecordDiscarded() {
	if m == nil {
		return
	}
	m.FramesDiscarded.Inc()
}

// RecordSamples counts the decoded samples of one channel, invalid samples included.
func (m *Metrics) RecordSamples(channel string, samples []byte) {
	if m == nil {
		return
	}

	invalid := 0
	for _, s := range samples {
		if s == 0xFF {
			invalid++
		}
	}
	m.Samples.WithLabelValues(channel).Add(float64(len(samples)))
	m.InvalidSamples.WithLabelValues(channel).Add(float64(invalid))
}

// SetLive sets the live reading gauges
func (m *Metrics) SetLive(pulse, spo2 byte) {
	if m == nil {
		return
	}
	m.Pulse.Set(float64(pulse))
	m.SpO2.Set(float64(spo2))
}
