package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/adapters/persistence/repositories"
	"pawndesk-backend/internal/config"
)

// SweepService refreshes the cached pledge status column. The derived status
// on reads is always correct; the sweep only keeps SQL filters and the
// dashboard counters aligned with it.
type SweepService struct {
	pledgeRepo      *repositories.PledgeRepository
	transactionRepo *repositories.TransactionRepository
	refreshRepo     repositories.RefreshTokenRepository
	cfg             *config.Config
	cron            *cron.Cron
}

// NewSweepService creates a new sweep service
func NewSweepService(
	pledgeRepo *repositories.PledgeRepository,
	transactionRepo *repositories.TransactionRepository,
	refreshRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *SweepService {
	return &SweepService{
		pledgeRepo:      pledgeRepo,
		transactionRepo: transactionRepo,
		refreshRepo:     refreshRepo,
		cfg:             cfg,
		cron:            cron.New(),
	}
}

// Start schedules the nightly jobs and runs one sweep immediately so a
// restart never leaves stale statuses until the next midnight.
func (s *SweepService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Pawn.SweepSchedule, s.runSweep); err != nil {
		return err
	}

	// Expired refresh tokens are cleaned on the same schedule
	if _, err := s.cron.AddFunc(s.cfg.Pawn.SweepSchedule, s.runTokenCleanup); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("⏰ Overdue sweep scheduled [%s]", s.cfg.Pawn.SweepSchedule)

	go s.runSweep()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *SweepService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce performs a single sweep, for manual triggering
func (s *SweepService) RunOnce(ctx context.Context) (int64, error) {
	return s.sweep(ctx)
}

func (s *SweepService) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.sweep(ctx); err != nil {
		log.Printf("⚠️ Overdue sweep failed: %v", err)
	}
}

func (s *SweepService) sweep(ctx context.Context) (int64, error) {
	affected, err := s.pledgeRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		tx := &models.PawnTransaction{
			TransactionType: models.TxTypeOverdueSweep,
			Description:     "Nightly sweep marked lapsed pledges overdue",
			PerformedBy:     0,
		}
		if err := s.transactionRepo.Create(ctx, tx); err != nil {
			log.Printf("⚠️ Audit write failed (%s): %v", tx.TransactionType, err)
		}
		log.Printf("🌙 Overdue sweep: %d pledge(s) marked overdue", affected)
	}

	return affected, nil
}

func (s *SweepService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.refreshRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Token cleanup failed: %v", err)
	}
}
