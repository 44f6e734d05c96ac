// Package monitor runs the probe cycle: fan out over the active sites,
// persist the results, and raise notifications for the sites that are down.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KarthicSuRa/mcm-alerts/internal/db"
	"github.com/KarthicSuRa/mcm-alerts/internal/notify"
	"github.com/KarthicSuRa/mcm-alerts/internal/probe"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MonitorTopic groups every down detection for routing and subscriptions.
const MonitorTopic = "site-monitoring"

type Store interface {
	GetActiveSites() ([]*db.Site, error)
	InsertPingLogs(logs []*db.PingLog) error
	CreateNotification(n *db.Notification) error
	GetTopicByName(name string) (*db.Topic, error)
}

type Prober interface {
	Probe(ctx context.Context, url string) probe.Result
}

type Dispatcher interface {
	Dispatch(ctx context.Context, n *db.Notification) (*notify.Result, error)
}

type Recorder interface {
	RecordProbe(site *db.Site, result probe.Result)
	RecordRun(sitesChecked int, durationSeconds float64)
}

type Summary struct {
	SitesChecked int
	SitesDown    int
}

type Runner struct {
	store      Store
	prober     Prober
	dispatcher Dispatcher
	recorder   Recorder
	logger     *zap.Logger
	batchSize  int
}

func NewRunner(store Store, prober Prober, dispatcher Dispatcher, recorder Recorder, logger *zap.Logger, batchSize int) *Runner {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &Runner{
		store:      store,
		prober:     prober,
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
		batchSize:  batchSize,
	}
}

type siteResult struct {
	site   *db.Site
	result probe.Result
}

// Run executes one probe cycle. Only the site-list fetch can fail the run;
// every per-site and per-batch failure is logged and the cycle continues.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	sites, err := r.store.GetActiveSites()
	if err != nil {
		return nil, fmt.Errorf("fetch active sites: %w", err)
	}

	if len(sites) == 0 {
		r.logger.Info("No active sites to check")
		return &Summary{}, nil
	}

	results := r.probeAll(ctx, sites)

	var down []siteResult
	logs := make([]*db.PingLog, 0, len(results))
	now := time.Now()
	for _, sr := range results {
		logs = append(logs, toPingLog(sr, now))
		r.recorder.RecordProbe(sr.site, sr.result)
		if !sr.result.IsUp {
			down = append(down, sr)
		}
	}

	// Persistence and notification are independent side effects of the same
	// cycle; both branches are attempted before the run reports done.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.persistLogs(logs)
	}()
	go func() {
		defer wg.Done()
		r.notifyDown(ctx, down)
	}()
	wg.Wait()

	summary := &Summary{SitesChecked: len(sites), SitesDown: len(down)}
	r.recorder.RecordRun(summary.SitesChecked, time.Since(start).Seconds())

	r.logger.Info("Probe cycle complete",
		zap.Int("sites_checked", summary.SitesChecked),
		zap.Int("sites_down", summary.SitesDown),
		zap.Duration("duration", time.Since(start)),
	)

	return summary, nil
}

// probeAll fans out one goroutine per site and joins on all of them. A slow
// site delays only the join, never a sibling probe.
func (r *Runner) probeAll(ctx context.Context, sites []*db.Site) []siteResult {
	results := make([]siteResult, len(sites))

	var wg sync.WaitGroup
	for i, site := range sites {
		wg.Add(1)
		go func(i int, site *db.Site) {
			defer wg.Done()
			results[i] = siteResult{site: site, result: r.prober.Probe(ctx, site.URL)}
		}(i, site)
	}
	wg.Wait()

	return results
}

func toPingLog(sr siteResult, checkedAt time.Time) *db.PingLog {
	log := &db.PingLog{
		ID:             uuid.New().String(),
		SiteID:         sr.site.ID,
		IsUp:           sr.result.IsUp,
		StatusCode:     sr.result.StatusCode,
		StatusText:     sr.result.StatusText,
		ResponseTimeMs: sr.result.ResponseTimeMs,
		CheckedAt:      checkedAt,
	}
	if sr.result.ErrorMessage != "" {
		msg := sr.result.ErrorMessage
		log.ErrorMessage = &msg
	}
	return log
}

// persistLogs writes ping logs in bounded batches. A failed batch is logged
// and skipped so the remaining batches still land.
func (r *Runner) persistLogs(logs []*db.PingLog) {
	for i := 0; i < len(logs); i += r.batchSize {
		end := i + r.batchSize
		if end > len(logs) {
			end = len(logs)
		}

		if err := r.store.InsertPingLogs(logs[i:end]); err != nil {
			r.logger.Error("Failed to insert ping log batch",
				zap.Error(err),
				zap.Int("batch_start", i),
				zap.Int("batch_size", end-i),
			)
		}
	}
}

func (r *Runner) notifyDown(ctx context.Context, down []siteResult) {
	if len(down) == 0 {
		return
	}

	var topicID *string
	topic, err := r.store.GetTopicByName(MonitorTopic)
	if err != nil {
		r.logger.Error("Failed to resolve monitoring topic, notifications will be untargeted",
			zap.Error(err),
			zap.String("topic", MonitorTopic),
		)
	} else {
		topicID = &topic.ID
	}

	for _, sr := range down {
		notification := buildDownNotification(sr, topicID)

		if err := r.store.CreateNotification(notification); err != nil {
			r.logger.Error("Failed to persist down notification",
				zap.Error(err),
				zap.String("site_id", sr.site.ID),
			)
			continue
		}

		if _, err := r.dispatcher.Dispatch(ctx, notification); err != nil {
			r.logger.Error("Failed to dispatch down notification",
				zap.Error(err),
				zap.String("site_id", sr.site.ID),
				zap.String("notification_id", notification.ID),
			)
		}
	}
}

func buildDownNotification(sr siteResult, topicID *string) *db.Notification {
	siteID := sr.site.ID
	message := fmt.Sprintf("%s (%s) is not responding.", sr.site.Name, sr.site.URL)
	if sr.result.ErrorMessage != "" {
		message = fmt.Sprintf("%s\n%s", message, sr.result.ErrorMessage)
	}

	return &db.Notification{
		ID:       uuid.New().String(),
		Type:     "site_down",
		Title:    fmt.Sprintf("Site Down: %s", sr.site.Name),
		Message:  message,
		Severity: db.SeverityHigh,
		Status:   db.NotificationNew,
		SiteID:   &siteID,
		TopicID:  topicID,
		Metadata: db.JSONB{
			"site_name":        sr.site.Name,
			"site_url":         sr.site.URL,
			"status_code":      sr.result.StatusCode,
			"response_time_ms": sr.result.ResponseTimeMs,
		},
		CreatedAt: time.Now(),
	}
}
