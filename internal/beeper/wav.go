package beeper

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	sampleRate    = 44100
	bitDepth      = 16
	toneFrequency = 440
	amplitude     = 0x2000

	pcmFormat = 1

	// samples recorded for every update, one timer period
	samplesPerUpdate = sampleRate / 60
)

// Wav records the tone as a mono 16 bit PCM square wave. Every update
// appends one timer period of tone or silence.
type Wav struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	phase  int
	closed bool
}

// NewWav returns a WAV recording beeper writing to w. The header is
// finalized on Close.
func NewWav(w io.WriteSeeker) *Wav {
	return &Wav{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, 1, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           make([]int, samplesPerUpdate),
			SourceBitDepth: bitDepth,
		},
	}
}

// Update appends one timer period of samples.
func (w *Wav) Update(active bool) error {
	halfPeriod := sampleRate / toneFrequency / 2

	for i := range w.buf.Data {
		if !active {
			w.buf.Data[i] = 0
			continue
		}
		if (w.phase/halfPeriod)%2 == 0 {
			w.buf.Data[i] = amplitude
		} else {
			w.buf.Data[i] = -amplitude
		}
		w.phase++
	}
	if !active {
		w.phase = 0
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close writes the final WAV header. It does not close the underlying
// writer.
func (w *Wav) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("closing wav encoder: %w", err)
	}
	return nil
}
