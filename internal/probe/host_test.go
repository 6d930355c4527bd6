//go:build linux

package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sink []byte

func TestHost_SelfMemoryKBIsPeak(t *testing.T) {
	h := NewHost()

	before, err := h.SelfMemoryKB()
	require.NoError(t, err)
	assert.Positive(t, before)

	// Touch 32 MiB, drop it, and collect: the peak must not go back down.
	buf := make([]byte, 32<<20)
	for i := range buf {
		buf[i] = byte(i)
	}
	sink = buf
	sink = nil

	after, err := h.SelfMemoryKB()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after, before+16<<10, "peak should include the 32 MiB just touched")

	again, err := h.SelfMemoryKB()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, again, after)
}
