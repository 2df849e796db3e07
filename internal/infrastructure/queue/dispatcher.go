package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mci/portal-api/internal/api/metrics"
	"github.com/mci/portal-api/internal/core/domain"
	"github.com/mci/portal-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher fans login attempts out to a fixed set of workers that
// persist them. Attempts for the same email always land on the same worker,
// so they are written in the order they happened.
type AuditDispatcher struct {
	workers []chan domain.LoginAttempt
	repo    ports.AttemptRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AttemptRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.LoginAttempt, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LoginAttempt, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an attempt without blocking. When the worker's buffer is
// full the attempt is dropped and counted.
func (d *AuditDispatcher) Record(attempt domain.LoginAttempt) {
	idx := d.shardIndex(attempt.Email)
	// Count before the send so the worker's Dec never runs first.
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- attempt:
	default:
		depth.Dec()
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("email", attempt.Email).
			Int("worker_id", idx).
			Msg("audit buffer full, login attempt dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(email)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.LoginAttempt) {
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case attempt, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.repo.InsertAttempt(ctx, attempt); err != nil {
				d.log.Error().Err(err).
					Str("email", attempt.Email).
					Int("worker_id", id).
					Msg("login attempt persistence failed")
			}
		}
	}
}
