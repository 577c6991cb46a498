package reminder

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/config"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/notification"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/store"
)

// Service periodically sweeps for overdue maintenance requests and
// dispatches push reminders for them.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool
}

// NewService creates and initializes a new reminder service.
func NewService(cfg *config.Config, store store.Store) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, store.DB(), &webpushOptions)

	return &Service{
		cfg:        cfg,
		store:      store,
		workerPool: workerPool,
	}
}

// WorkerPool exposes the underlying pool for testing.
func (s *Service) WorkerPool() *notification.WorkerPool {
	return s.workerPool
}

// Run starts the reminder sweep in a loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Reminder.Enabled {
		log.Println("Reminder service is disabled. Not starting.")
		return
	}
	log.Println("Starting reminder service...")

	s.workerPool.Start(ctx)

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Reminder.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder service shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Reminder.Interval)
		}
	}
}

// SweepOnce performs a single sweep for overdue requests and dispatches
// reminder jobs to the worker pool.
func (s *Service) SweepOnce(ctx context.Context) {
	log.Println("Executing reminder sweep...")

	ids, err := s.store.OverdueRequestIDs(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Error querying overdue requests: %v", err)
		return
	}

	if len(ids) == 0 {
		log.Println("Reminder sweep finished: no overdue requests.")
		return
	}

	log.Printf("Dispatching reminders for %d overdue requests", len(ids))
	for _, id := range ids {
		s.workerPool.Dispatch(id)
	}

	log.Println("Reminder sweep finished.")
}
