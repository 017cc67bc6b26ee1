// Package metrics exposes the synchronized snapshot to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rada-console/internal/poller"
	"rada-console/pkg/models"
)

// SnapshotSource is what the collector scrapes.
type SnapshotSource interface {
	Snapshot() poller.Snapshot
	Stats() poller.Stats
}

var (
	upDesc = prometheus.NewDesc(
		"rada_up", "Was the last poll cycle successful.", nil, nil,
	)
	snapshotAgeDesc = prometheus.NewDesc(
		"rada_snapshot_age_seconds", "Seconds since the snapshot was last replaced.", nil, nil,
	)
	cameraCountDesc = prometheus.NewDesc(
		"rada_cameras_total", "Cameras in the synchronized roster.", nil, nil,
	)
	eventStateDesc = prometheus.NewDesc(
		"rada_events_total", "Synchronized events grouped by state.", []string{"state"}, nil,
	)
	eventTypeDesc = prometheus.NewDesc(
		"rada_events_by_type", "Synchronized events grouped by detection type.", []string{"event_type"}, nil,
	)
	cameraEventsDesc = prometheus.NewDesc(
		"rada_camera_events", "Synchronized events per camera.", []string{"camera_id", "name"}, nil,
	)
	maxSeverityDesc = prometheus.NewDesc(
		"rada_event_max_severity", "Highest severity among synchronized events.", nil, nil,
	)
	cyclesDesc = prometheus.NewDesc(
		"rada_poll_cycles_total", "Completed poll cycles.", nil, nil,
	)
	failuresDesc = prometheus.NewDesc(
		"rada_poll_failures_total", "Failed poll cycles.", nil, nil,
	)
	discardedDesc = prometheus.NewDesc(
		"rada_poll_discarded_total", "Poll results dropped as stale or after deactivation.", nil, nil,
	)
)

type Collector struct {
	Source SnapshotSource
	Now    func() time.Time
	Mutex  sync.Mutex
}

func NewCollector(src SnapshotSource) *Collector {
	return &Collector{Source: src, Now: time.Now}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- snapshotAgeDesc
	ch <- cameraCountDesc
	ch <- eventStateDesc
	ch <- eventTypeDesc
	ch <- cameraEventsDesc
	ch <- maxSeverityDesc
	ch <- cyclesDesc
	ch <- failuresDesc
	ch <- discardedDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()

	snap := c.Source.Snapshot()
	stats := c.Source.Stats()

	up := 0.0
	if stats.Applied > 0 && !stats.LastSuccess.Before(stats.LastErrorAt) {
		up = 1.0
	}
	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, up)

	if !snap.LoadedAt.IsZero() {
		ch <- prometheus.MustNewConstMetric(snapshotAgeDesc, prometheus.GaugeValue, c.Now().Sub(snap.LoadedAt).Seconds())
	}

	ch <- prometheus.MustNewConstMetric(cameraCountDesc, prometheus.GaugeValue, float64(len(snap.Cameras)))

	states := make(map[models.EventState]float64)
	for _, st := range models.EventStates {
		states[st] = 0
	}
	types := make(map[models.EventType]float64)
	perCamera := make(map[string]float64)
	for _, cam := range snap.Cameras {
		perCamera[cam.ID] = 0
	}
	maxSeverity := 0

	for _, e := range snap.Events {
		states[e.State]++
		types[e.EventType]++
		perCamera[e.CameraID]++
		if e.Severity > maxSeverity {
			maxSeverity = e.Severity
		}
	}

	for st, cnt := range states {
		ch <- prometheus.MustNewConstMetric(eventStateDesc, prometheus.GaugeValue, cnt, string(st))
	}
	for typ, cnt := range types {
		ch <- prometheus.MustNewConstMetric(eventTypeDesc, prometheus.GaugeValue, cnt, string(typ))
	}
	for id, cnt := range perCamera {
		ch <- prometheus.MustNewConstMetric(cameraEventsDesc, prometheus.GaugeValue, cnt, id, models.CameraLabel(snap.Cameras, id))
	}
	ch <- prometheus.MustNewConstMetric(maxSeverityDesc, prometheus.GaugeValue, float64(maxSeverity))

	ch <- prometheus.MustNewConstMetric(cyclesDesc, prometheus.CounterValue, float64(stats.Cycles))
	ch <- prometheus.MustNewConstMetric(failuresDesc, prometheus.CounterValue, float64(stats.Failures))
	ch <- prometheus.MustNewConstMetric(discardedDesc, prometheus.CounterValue, float64(stats.Discarded))
}
