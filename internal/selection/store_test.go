package selection

import (
	"sync"
	"testing"
	"time"

	"dexadash/domain/core"
	"dexadash/domain/scan"

	"github.com/stretchr/testify/assert"
)

func press(part scan.BodyPart) ToggleEvent {
	return ToggleEvent{Kind: KindBodyPartButton, Index: part}
}

func TestStoreIsolatesSessions(t *testing.T) {
	store := NewStore(time.Hour)
	a, b := core.NewSessionID(), core.NewSessionID()

	store.Apply(a, press(scan.LeftLeg))

	assert.Equal(t, []scan.BodyPart{scan.LeftLeg}, store.Selected(a))
	assert.Equal(t, []scan.BodyPart{scan.Total}, store.Selected(b))
	assert.Equal(t, 2, store.Len())
}

func TestStoreReset(t *testing.T) {
	store := NewStore(time.Hour)
	id := core.NewSessionID()
	store.Apply(id, press(scan.Android))

	assert.Equal(t, []scan.BodyPart{scan.Total}, store.Reset(id))
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	store := NewStore(time.Minute)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	id := core.NewSessionID()
	store.Apply(id, press(scan.LeftArm))

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, []scan.BodyPart{scan.Total}, store.Selected(id), "expired session starts over")
}

func TestStoreConcurrentSessions(t *testing.T) {
	store := NewStore(time.Hour)
	ids := make([]core.SessionID, 8)
	for i := range ids {
		ids[i] = core.NewSessionID()
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id core.SessionID) {
			defer wg.Done()
			store.Apply(id, press(scan.LeftArm))
			store.Apply(id, press(scan.RightArm))
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, []scan.BodyPart{scan.LeftArm, scan.RightArm}, store.Selected(id))
	}
}
