package voice

import (
	"encoding/binary"
	"math"
)

const (
	fallbackSampleRate = 44100
	fallbackSeconds    = 10
)

// FallbackClip synthesizes a calm ten second WAV clip: near-silence
// with a soft 440Hz tone pulsing every other second. It stands in for
// the pet's voice when the remote service is unreachable.
func FallbackClip() []byte {
	n := fallbackSampleRate * fallbackSeconds
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / fallbackSampleRate
		for _, at := range []float64{1, 3, 5, 7, 9} {
			if math.Abs(t-at) < 0.1 {
				samples[i] = math.Sin(2*math.Pi*440*t) * 0.1
				break
			}
		}
	}
	return encodeWAV(samples, fallbackSampleRate)
}

// encodeWAV packs mono float samples into a 16-bit PCM RIFF container.
func encodeWAV(samples []float64, sampleRate int) []byte {
	dataLen := len(samples) * 2
	out := make([]byte, 0, 44+dataLen)
	buf := make([]byte, 4)

	put32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf, v)
		out = append(out, buf[:4]...)
	}
	put16 := func(v uint16) {
		binary.LittleEndian.PutUint16(buf, v)
		out = append(out, buf[:2]...)
	}

	out = append(out, "RIFF"...)
	put32(uint32(36 + dataLen))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	put32(16)
	put16(1) // PCM
	put16(1) // mono
	put32(uint32(sampleRate))
	put32(uint32(sampleRate * 2)) // byte rate
	put16(2)                      // block align
	put16(16)                     // bits per sample

	out = append(out, "data"...)
	put32(uint32(dataLen))
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		var v int16
		if s < 0 {
			v = int16(s * 0x8000)
		} else {
			v = int16(s * 0x7FFF)
		}
		binary.LittleEndian.PutUint16(buf, uint16(v))
		out = append(out, buf[:2]...)
	}
	return out
}
