package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifiersAreUniqueAndValid(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := ConnID()
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}

	assert.True(t, IsValidSessionID(SessionID()))
	assert.False(t, IsValidSessionID("not-a-uuid"))
}
