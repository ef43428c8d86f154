package voice

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackClipHeader(t *testing.T) {
	clip := FallbackClip()

	require.Greater(t, len(clip), 44)
	assert.Equal(t, "RIFF", string(clip[0:4]))
	assert.Equal(t, "WAVE", string(clip[8:12]))
	assert.Equal(t, "fmt ", string(clip[12:16]))
	assert.Equal(t, "data", string(clip[36:40]))

	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(clip[20:22]), "PCM format")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(clip[22:24]), "mono")
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(clip[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(clip[34:36]))

	dataLen := binary.LittleEndian.Uint32(clip[40:44])
	assert.Equal(t, uint32(44100*10*2), dataLen)
	assert.Equal(t, 44+int(dataLen), len(clip))
}

func TestFallbackClipTonesAndSilence(t *testing.T) {
	clip := FallbackClip()
	data := clip[44:]

	sampleAt := func(sec float64) int16 {
		idx := int(sec*44100) * 2
		return int16(binary.LittleEndian.Uint16(data[idx : idx+2]))
	}

	// Tone windows sit around the odd seconds, silence in between.
	var peak int16
	for sec := 0.95; sec < 1.05; sec += 0.001 {
		if v := sampleAt(sec); v > peak {
			peak = v
		}
	}
	assert.Greater(t, peak, int16(1000), "tone near t=1s")

	assert.Equal(t, int16(0), sampleAt(2.0))
	assert.Equal(t, int16(0), sampleAt(8.0))
}
