package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/frscdev/offence-register/internal/events"
	"github.com/frscdev/offence-register/internal/models"
)

type fakeLister struct {
	mu       sync.Mutex
	offences []models.Offence
}

func (f *fakeLister) List() []models.Offence {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Offence(nil), f.offences...)
}

func (f *fakeLister) set(offences []models.Offence) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offences = offences
}

func TestRecorder_PrimesOnConstruction(t *testing.T) {
	lister := &fakeLister{offences: sample()}
	recorder := NewRecorder(lister)

	snapshot := recorder.Snapshot()
	assert.Equal(t, 4, snapshot.TotalOffences)
	assert.Equal(t, "Speeding", snapshot.MostCommonOffence)
}

func TestRecorder_RefreshesOnChangeEvents(t *testing.T) {
	lister := &fakeLister{}
	recorder := NewRecorder(lister)
	assert.Equal(t, 0, recorder.Snapshot().TotalOffences)

	pubSub := events.NewPubSub(log.StandardLogger())
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, recorder.Run(ctx, pubSub))

	lister.set(sample())
	assert.NoError(t, events.PublishChange(pubSub, "created", "OFF004"))

	assert.Eventually(t, func() bool {
		return recorder.Snapshot().TotalOffences == 4
	}, 2*time.Second, 10*time.Millisecond)
}
