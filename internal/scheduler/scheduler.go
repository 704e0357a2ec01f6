package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/brewcast/internal/config"
	"github.com/mamadbah2/brewcast/pkg/clients/whatsapp"
)

// DigestBuilder renders the fermentation digest message.
type DigestBuilder interface {
	BuildDigest(ctx context.Context) (string, error)
}

// Scheduler runs the fermentation digest on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	digest    DigestBuilder
	sender    whatsapp.Client
	recipient string
	schedule  string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler evaluating cfg.CronSchedule in cfg.Timezone.
func NewScheduler(cfg config.DigestConfig, recipient string, digest DigestBuilder, sender whatsapp.Client, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		digest:    digest,
		sender:    sender,
		recipient: recipient,
		schedule:  cfg.CronSchedule,
		logger:    logger,
	}, nil
}

// Start registers the digest job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendDigest); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("fermentation digest failed", zap.Error(err))
	}
}

// RunOnce builds and sends a single digest.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.logger.Info("generating fermentation digest")

	message, err := s.digest.BuildDigest(ctx)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	if _, err := s.sender.SendTextMessage(ctx, whatsapp.SendTextMessageRequest{
		To:   s.recipient,
		Body: message,
	}); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	s.logger.Info("fermentation digest sent")
	return nil
}
