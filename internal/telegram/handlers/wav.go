package handlers

import (
	"encoding/binary"
	"fmt"
	"mime"
	"strconv"
)

// DefaultSampleRate is the rate of Gemini speech output when the MIME type
// does not carry one.
const DefaultSampleRate = 24000

const (
	wavHeaderSize = 44
	bitsPerSample = 16
)

// ToWAV wraps raw 16-bit little-endian PCM in a RIFF/WAVE container so chat
// clients can play it. Data already in WAV form is returned unchanged.
func ToWAV(data []byte, mimeType string) ([]byte, error) {
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return nil, fmt.Errorf("invalid audio mime type %q: %w", mimeType, err)
	}

	switch mediaType {
	case "audio/wav", "audio/wave", "audio/x-wav":
		return data, nil
	case "audio/l16", "audio/pcm":
	default:
		return nil, fmt.Errorf("unsupported audio mime type %q", mediaType)
	}

	rate, err := positiveParam(params, "rate", DefaultSampleRate)
	if err != nil {
		return nil, err
	}
	channels, err := positiveParam(params, "channels", 1)
	if err != nil {
		return nil, err
	}
	return pcmToWAV(data, rate, channels), nil
}

func positiveParam(params map[string]string, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid audio %s %q", key, v)
	}
	return n, nil
}

func pcmToWAV(pcm []byte, sampleRate, channels int) []byte {
	blockAlign := channels * bitsPerSample / 8

	out := make([]byte, 0, wavHeaderSize+len(pcm))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(pcm)))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate*blockAlign))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, bitsPerSample)

	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pcm)))
	return append(out, pcm...)
}
