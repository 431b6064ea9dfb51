package output

import "github.com/favbox/windout/common/tracer/stats"

// StatsTracer implements Tracer on top of common/tracer/stats's
// Event/Level vocabulary, the default way a windout embedder observes the
// write path without pulling in OpenTelemetry (see OtelTracer for that).
type StatsTracer struct {
	// Level gates which events are actually recorded; events above this
	// level are dropped cheaply before reaching Record.
	Level stats.Level
	// Record is invoked for every event at or below Level. Defaults to a
	// no-op if nil.
	Record func(id uint64, evt stats.Event, status stats.Status, n int)
}

var _ Tracer = (*StatsTracer)(nil)

func (t *StatsTracer) record(evt stats.Event, id uint64, status stats.Status, n int) {
	if t.Record == nil || evt.Level() > t.Level {
		return
	}
	t.Record(id, evt, status, n)
}

func (t *StatsTracer) ConnectionWrite(id uint64, n int) {
	t.record(stats.ConnectionWrite, id, stats.StatusInfo, n)
}

func (t *StatsTracer) ConnectionWriteCallback(id uint64, status Status) {
	t.record(stats.ConnectionWriteCallback, id, statsStatus(status), 0)
}

func (t *StatsTracer) ConnectionWroteFin(id uint64, status Status) {
	t.record(stats.ConnectionWroteFin, id, statsStatus(status), 0)
}

func (t *StatsTracer) ConnectionStop(id uint64) {
	t.record(stats.ConnectionStop, id, stats.StatusInfo, 0)
}

func statsStatus(s Status) stats.Status {
	if s == StatusErr {
		return stats.StatusError
	}
	return stats.StatusInfo
}
