package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TrendScreener/internal/model"
	"TrendScreener/internal/notifier"
	"TrendScreener/internal/server"
)

// Ranker produces a ranking report.
type Ranker interface {
	Run(ctx context.Context) (*model.Report, error)
}

// Sender delivers a notification.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Pruner drops cached data older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Screener  Ranker
	Latest    *server.Latest
	Notifier  Sender // optional
	Cache     Pruner // optional
	Retention time.Duration
	Location  *time.Location
	Ctx       context.Context

	mu sync.Mutex // one ranking at a time
}

// NewScheduler creates a new Scheduler. Cron expressions carry a seconds field.
func NewScheduler(ctx context.Context, r Ranker, latest *server.Latest, tn Sender, cache Pruner, retention time.Duration, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Screener:  r,
		Latest:    latest,
		Notifier:  tn,
		Cache:     cache,
		Retention: retention,
		Location:  loc,
		Ctx:       ctx,
	}
}

// RegisterAll registers the ranking refresh and, when a cache is set, the prune task.
func (s *Scheduler) RegisterAll(refreshCron, pruneCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if s.Cache != nil && s.Retention > 0 {
		if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes one ranking immediately and publishes it.
func (s *Scheduler) RunNow(ctx context.Context) (*model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.Screener.Run(ctx)
	if err != nil {
		return nil, err
	}
	if s.Latest != nil {
		s.Latest.Store(report)
	}
	return report, nil
}

func (s *Scheduler) refreshTask() {
	log.Info().Msg("running refresh task")
	report, err := s.RunNow(s.Ctx)
	if err != nil {
		log.Error().Err(err).Msg("refresh ranking")
		s.trySend(fmt.Sprintf("❌ Error al actualizar el ranking: %v", err))
		return
	}
	s.trySend(notifier.FormatTelegram(report, s.Location))
}

func (s *Scheduler) pruneTask() {
	cutoff := time.Now().Add(-s.Retention)
	n, err := s.Cache.Prune(s.Ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("prune series cache")
		return
	}
	log.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("series cache pruned")
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name := ""
	if fields := strings.Fields(command); len(fields) > 0 {
		name = strings.ToLower(fields[0])
	}
	switch name {
	case "/ranking", "ranking":
		if s.Latest == nil || s.Latest.Load() == nil {
			return notifier.FormatPlain(nil)
		}
		return notifier.FormatTelegram(s.Latest.Load(), s.Location)
	case "/actualizar", "/refresh":
		report, err := s.RunNow(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Error al actualizar el ranking: %v", err)
		}
		return notifier.FormatTelegram(report, s.Location)
	case "/estado", "/status":
		var r *model.Report
		if s.Latest != nil {
			r = s.Latest.Load()
		}
		return notifier.FormatPlain(r)
	default:
		return "Comandos disponibles:\n• /ranking\n• /actualizar\n• /estado"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
