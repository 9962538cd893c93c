package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCronEverySeconds_Clamping(t *testing.T) {
	assert.Equal(t, "@every 1s", cronEverySeconds(0))
	assert.Equal(t, "@every 1s", cronEverySeconds(-5))
	assert.Equal(t, "@every 30s", cronEverySeconds(30))
	assert.Equal(t, "@every 59s", cronEverySeconds(59))
	assert.Equal(t, "@every 59s", cronEverySeconds(120))
}

func TestJanitor_DisabledWhenIntervalNonPositive(t *testing.T) {
	h := NewHandle()
	j := NewJanitor(h, zap.NewNop(), 0)
	j.Start()
	assert.False(t, j.isRunning)
	j.Stop()
}

func TestJanitor_StartStopLifecycle(t *testing.T) {
	h := NewHandle()
	j := NewJanitor(h, zap.NewNop(), 5)
	j.Start()
	assert.True(t, j.isRunning)

	j.Start()
	assert.True(t, j.isRunning)

	j.Stop()
	assert.False(t, j.isRunning)
}
