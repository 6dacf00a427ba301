package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownRegistry(t *testing.T) {
	now := time.Now()
	reg := NewCooldownRegistry()
	reg.now = func() time.Time { return now }

	assert.False(t, reg.Cooling("page-1"), "fresh page must be open")

	until := reg.MarkLimited("page-1")
	assert.Equal(t, now.Add(rateLimitBackoff), until)
	assert.True(t, reg.Cooling("page-1"))
	assert.False(t, reg.Cooling("page-2"), "cooldown is per page")

	// Still inside the window.
	now = now.Add(30 * time.Second)
	assert.True(t, reg.Cooling("page-1"))

	// Window expired: page opens again and the entry is cleared.
	now = now.Add(rateLimitBackoff)
	assert.False(t, reg.Cooling("page-1"))
	assert.Empty(t, reg.until)
}
