package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredefinedEvents(t *testing.T) {
	assert.Equal(t, LevelBase, ConnectionWrite.Level())
	assert.Equal(t, LevelDetailed, ConnectionWriteCallback.Level())
	assert.NotEqual(t, ConnectionWrite.Index(), ConnectionStop.Index())
}

func TestDefinedNewEvent(t *testing.T) {
	lock.Lock()
	initialized = 0
	userDefined = make(map[string]Event)
	maxEventNum = int(predefinedEventNum)
	lock.Unlock()

	evt, err := DefinedNewEvent("custom.backlog", LevelDetailed)
	assert.NoError(t, err)
	assert.Equal(t, LevelDetailed, evt.Level())

	_, err = DefinedNewEvent("custom.backlog", LevelDetailed)
	assert.ErrorIs(t, err, ErrDuplicate)

	FinishInitialization()
	_, err = DefinedNewEvent("too.late", LevelBase)
	assert.ErrorIs(t, err, ErrNotAllowed)
}
