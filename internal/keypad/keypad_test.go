package keypad

import (
	"errors"
	"sync"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLatch_Set(t *testing.T) {
	l := New()

	assert.NoError(t, l.Set(0xF, true))
	err := l.Set(0x10, true)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestLatch_RefreshAppliesQueue(t *testing.T) {
	l := New()
	assert.NoError(t, l.Set(0x5, true))

	// not visible before the refresh
	assert.False(t, l.State().IsPressed(0x5))
	assert.False(t, l.Pressed()[0x5])

	l.Refresh()

	state := l.State()
	assert.True(t, state.IsPressed(0x5))
	assert.True(t, state.Changed)
	assert.Equal(t, uint8(0x5), state.Key)
	assert.True(t, l.Pressed()[0x5])
}

func TestLatch_Edge(t *testing.T) {
	l := New()

	assert.NoError(t, l.Set(0x3, true))
	l.Refresh()
	assert.True(t, l.State().Changed)

	// holding the same key does not produce a new edge
	l.Refresh()
	assert.False(t, l.State().Changed)
	assert.Equal(t, uint8(0x3), l.State().Key)

	// a higher key becomes the current key
	assert.NoError(t, l.Set(0xA, true))
	l.Refresh()
	assert.True(t, l.State().Changed)
	assert.Equal(t, uint8(0xA), l.State().Key)

	// releasing everything clears the current key
	assert.NoError(t, l.Set(0x3, false))
	assert.NoError(t, l.Set(0xA, false))
	l.Refresh()
	assert.False(t, l.State().Changed)
	assert.Equal(t, NoKey, l.State().Key)

	// pressing the same key again is a new edge
	assert.NoError(t, l.Set(0x3, true))
	l.Refresh()
	assert.True(t, l.State().Changed)
	assert.Equal(t, uint8(0x3), l.State().Key)
}

func TestLatch_Tap(t *testing.T) {
	l := New()

	assert.NoError(t, l.Set(0x7, true))
	assert.NoError(t, l.Set(0x7, false))
	l.Refresh()

	state := l.State()
	assert.True(t, state.Changed)
	assert.Equal(t, uint8(0x7), state.Key)
	assert.False(t, state.IsPressed(0x7))

	l.Refresh()
	assert.False(t, l.State().Changed)
	assert.Equal(t, NoKey, l.State().Key)
}

func TestLatch_PressWhileHolding(t *testing.T) {
	tests := []struct {
		name    string
		held    uint8
		key     uint8
		release bool // released again before the refresh
	}{
		{name: "lower key while higher key is held", held: 0xF, key: 0x3},
		{name: "higher key while lower key is held", held: 0x3, key: 0xF},
		{name: "tap while another key is held", held: 0x2, key: 0x7, release: true},
		{name: "tap of a lower key while higher key is held", held: 0xE, key: 0x1, release: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			assert.NoError(t, l.Set(tt.held, true))
			l.Refresh()
			l.Refresh()
			assert.False(t, l.State().Changed)
			assert.Equal(t, tt.held, l.State().Key)

			assert.NoError(t, l.Set(tt.key, true))
			if tt.release {
				assert.NoError(t, l.Set(tt.key, false))
			}
			l.Refresh()

			state := l.State()
			assert.True(t, state.Changed)
			assert.Equal(t, tt.key, state.Key)
			assert.Equal(t, !tt.release, state.IsPressed(tt.key))
			assert.True(t, state.IsPressed(tt.held))

			// without new presses the highest held key is current again
			l.Refresh()
			state = l.State()
			assert.False(t, state.Changed)
			if tt.release || tt.held > tt.key {
				assert.Equal(t, tt.held, state.Key)
			} else {
				assert.Equal(t, tt.key, state.Key)
			}
		})
	}
}

func TestLatch_ReleaseIsNoEdge(t *testing.T) {
	l := New()
	assert.NoError(t, l.Set(0x4, true))
	assert.NoError(t, l.Set(0x9, true))
	l.Refresh()
	assert.True(t, l.State().Changed)
	assert.Equal(t, uint8(0x9), l.State().Key)

	assert.NoError(t, l.Set(0x9, false))
	l.Refresh()
	assert.False(t, l.State().Changed)
	assert.Equal(t, uint8(0x4), l.State().Key)

	// a repeated press of a held key is no new edge
	assert.NoError(t, l.Set(0x4, true))
	l.Refresh()
	assert.False(t, l.State().Changed)
}

func TestLatch_Reset(t *testing.T) {
	l := New()
	assert.NoError(t, l.Set(0x1, true))
	l.Refresh()
	l.Refresh()
	assert.False(t, l.State().Changed)

	l.Reset()
	assert.Equal(t, NoKey, l.State().Key)

	l.Refresh()
	assert.True(t, l.State().Changed)
	assert.Equal(t, uint8(0x1), l.State().Key)
}

func TestLatch_ConcurrentSet(t *testing.T) {
	l := New()
	var wg sync.WaitGroup

	for key := uint8(0); key < Keys; key++ {
		wg.Add(1)
		go func(key uint8) {
			defer wg.Done()
			_ = l.Set(key, true)
		}(key)
	}
	for i := 0; i < 100; i++ {
		l.Refresh()
		_ = l.Pressed()
	}
	wg.Wait()
	l.Refresh()

	pressed := l.Pressed()
	for key := 0; key < Keys; key++ {
		assert.True(t, pressed[key])
	}
}
