package metrics

import (
	"github.com/KarthicSuRa/mcm-alerts/internal/config"
	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/KarthicSuRa/mcm-alerts/internal/probe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	config *config.MetricsConfig

	probeDuration *prometheus.HistogramVec
	siteUp        *prometheus.GaugeVec
	probesTotal   *prometheus.CounterVec

	webhookEventsTotal  *prometheus.CounterVec
	webhookAlertsTotal  *prometheus.CounterVec
	webhookRejectsTotal *prometheus.CounterVec

	notificationsSent   *prometheus.CounterVec
	notificationsFailed *prometheus.CounterVec
	pushLatency         prometheus.Histogram

	monitorRunDuration prometheus.Histogram
	monitorSitesTotal  prometheus.Gauge
}

func NewCollector(cfg config.MetricsConfig) *Collector {
	return &Collector{
		config: &cfg,

		probeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mcm_probe_duration_seconds",
				Help:    "Duration of site probes in seconds",
				Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"site_id", "site_name"},
		),

		siteUp: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mcm_site_up",
				Help: "Whether the site is up (1) or down (0)",
			},
			[]string{"site_id", "site_name"},
		),

		probesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcm_probes_total",
				Help: "Total probes by outcome",
			},
			[]string{"site_id", "result"},
		),

		webhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcm_webhook_events_total",
				Help: "Accepted webhook events by source type",
			},
			[]string{"source_type"},
		),

		webhookAlertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcm_webhook_alerts_total",
				Help: "Webhook events that produced a notification",
			},
			[]string{"source_type"},
		),

		webhookRejectsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcm_webhook_rejects_total",
				Help: "Rejected webhook requests by reason",
			},
			[]string{"reason"},
		),

		notificationsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcm_notifications_sent_total",
				Help: "Push notifications dispatched to the provider",
			},
			[]string{"severity"},
		),

		notificationsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mcm_notifications_failed_total",
				Help: "Push dispatch failures",
			},
			[]string{"severity"},
		),

		pushLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mcm_push_latency_seconds",
				Help:    "Latency of provider push calls",
				Buckets: prometheus.DefBuckets,
			},
		),

		monitorRunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mcm_monitor_run_duration_seconds",
				Help:    "Duration of a full probe cycle",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60},
			},
		),

		monitorSitesTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mcm_monitor_sites_checked",
				Help: "Sites checked in the last probe cycle",
			},
		),
	}
}

func (c *Collector) RecordProbe(site *db.Site, result probe.Result) {
	c.probeDuration.WithLabelValues(site.ID, site.Name).
		Observe(float64(result.ResponseTimeMs) / 1000)

	up := 0.0
	outcome := "down"
	if result.IsUp {
		up = 1.0
		outcome = "up"
	}
	c.siteUp.WithLabelValues(site.ID, site.Name).Set(up)
	c.probesTotal.WithLabelValues(site.ID, outcome).Inc()
}

func (c *Collector) RecordRun(sitesChecked int, durationSeconds float64) {
	c.monitorSitesTotal.Set(float64(sitesChecked))
	c.monitorRunDuration.Observe(durationSeconds)
}

func (c *Collector) RecordWebhookEvent(sourceType db.SourceType, alerted bool) {
	c.webhookEventsTotal.WithLabelValues(string(sourceType)).Inc()
	if alerted {
		c.webhookAlertsTotal.WithLabelValues(string(sourceType)).Inc()
	}
}

func (c *Collector) RecordWebhookReject(reason string) {
	c.webhookRejectsTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordNotification(severity db.Severity, success bool, latencySeconds float64) {
	if success {
		c.notificationsSent.WithLabelValues(string(severity)).Inc()
	} else {
		c.notificationsFailed.WithLabelValues(string(severity)).Inc()
	}
	c.pushLatency.Observe(latencySeconds)
}
