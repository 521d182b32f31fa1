package beeper

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/assert"
)

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	bell := NewBell(&buf)

	for _, active := range []bool{false, true, true, false, true} {
		assert.NoError(t, bell.Update(active))
	}
	assert.Equal(t, "\a\a", buf.String())
	assert.NoError(t, bell.Close())
}

func TestWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	assert.NoError(t, err)

	w := NewWav(f)
	assert.NoError(t, w.Update(true))
	assert.NoError(t, w.Update(false))
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.NoError(t, f.Close())

	f, err = os.Open(path)
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	assert.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(sampleRate), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)

	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)
	assert.Len(t, buf.Data, 2*samplesPerUpdate)

	tone := buf.Data[:samplesPerUpdate]
	assert.Equal(t, amplitude, tone[0])
	assert.Equal(t, -amplitude, tone[sampleRate/toneFrequency/2])

	for _, sample := range buf.Data[samplesPerUpdate:] {
		assert.Equal(t, 0, sample)
	}
}

type fakeSource struct {
	value atomic.Uint32
}

func (s *fakeSource) SoundTimer() uint8 {
	return uint8(s.value.Load())
}

type recorder struct {
	updates atomic.Int32
	active  atomic.Int32
	err     error
}

func (r *recorder) Update(active bool) error {
	r.updates.Add(1)
	if active {
		r.active.Add(1)
	}
	return r.err
}

func (r *recorder) Close() error {
	return nil
}

func TestMonitor(t *testing.T) {
	source := &fakeSource{}
	source.value.Store(5)
	rec := &recorder{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Monitor(ctx, source, rec, time.Millisecond)
	assert.NoError(t, err)
	assert.True(t, rec.updates.Load() > 0)
	assert.Equal(t, rec.updates.Load(), rec.active.Load())
}

func TestMonitor_Error(t *testing.T) {
	errWrite := errors.New("write failed")
	rec := &recorder{err: errWrite}

	err := Monitor(context.Background(), &fakeSource{}, rec, time.Millisecond)
	assert.True(t, errors.Is(err, errWrite))
	assert.Equal(t, int32(1), rec.updates.Load())
}
