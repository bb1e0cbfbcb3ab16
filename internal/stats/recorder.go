package stats

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	log "github.com/sirupsen/logrus"

	"github.com/frscdev/offence-register/internal/events"
	"github.com/frscdev/offence-register/internal/models"
)

// Lister provides the current offence list snapshot.
type Lister interface {
	List() []models.Offence
}

// Recorder caches the admin dashboard summary and recomputes it whenever the
// repository publishes a change.
type Recorder struct {
	mu      sync.RWMutex
	lister  Lister
	summary Summary
}

// NewRecorder computes the initial summary from the current list.
func NewRecorder(lister Lister) *Recorder {
	return &Recorder{
		lister:  lister,
		summary: Summarize(lister.List()),
	}
}

// Run subscribes to offence change events and recomputes the summary for
// each one until the context is cancelled.
func (r *Recorder) Run(ctx context.Context, subscriber message.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, events.TopicOffences)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			r.refresh()
			msg.Ack()
		}
		log.Debug("Dashboard recorder stopped")
	}()
	return nil
}

// Snapshot returns the cached summary.
func (r *Recorder) Snapshot() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

func (r *Recorder) refresh() {
	summary := Summarize(r.lister.List())
	r.mu.Lock()
	r.summary = summary
	r.mu.Unlock()
}
