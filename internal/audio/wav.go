// Package audio provides WAV metadata inspection for generated speech files.
//
// The dashboard displays the real duration and sample rate of every generated
// clip, so the RIFF header of engine output is parsed directly instead of
// trusting word-count estimates.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// RIFF chunk identifiers.
const (
	riffMagic = "RIFF"
	waveMagic = "WAVE"
	fmtChunk  = "fmt "
	dataChunk = "data"
)

const (
	headerSize    = 12
	chunkHeader   = 8
	fmtMinSize    = 16
	bitsPerByte   = 8
	formatPCM     = 1
	formatFloat   = 3
	formatExtPCM  = 65534
	minValidBytes = headerSize + chunkHeader
)

// Static errors.
var (
	ErrNotWAV           = errors.New("data is not a RIFF/WAVE stream")
	ErrTruncated        = errors.New("wav data is truncated")
	ErrMissingFmtChunk  = errors.New("wav data has no fmt chunk")
	ErrMissingDataChunk = errors.New("wav data has no data chunk")
	ErrBadFormat        = errors.New("unsupported wav encoding")
)

// Info describes a WAV file's format and duration.
type Info struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataBytes     int
	Duration      time.Duration
}

// Probe parses the RIFF header of data and returns format information.
func Probe(data []byte) (*Info, error) {
	if len(data) < minValidBytes {
		return nil, ErrTruncated
	}

	if string(data[0:4]) != riffMagic || string(data[8:12]) != waveMagic {
		return nil, ErrNotWAV
	}

	info := &Info{
		SampleRate:    0,
		Channels:      0,
		BitsPerSample: 0,
		DataBytes:     0,
		Duration:      0,
	}

	haveFmt, haveData, err := scanChunks(data[headerSize:], info)
	if err != nil {
		return nil, err
	}

	if !haveFmt {
		return nil, ErrMissingFmtChunk
	}

	if !haveData {
		return nil, ErrMissingDataChunk
	}

	info.Duration = computeDuration(info)

	return info, nil
}

// scanChunks walks the RIFF chunk list, filling info from the fmt and data chunks.
func scanChunks(chunks []byte, info *Info) (haveFmt, haveData bool, err error) {
	offset := 0

	for offset+chunkHeader <= len(chunks) {
		chunkID := string(chunks[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(chunks[offset+4 : offset+8]))
		body := chunks[offset+chunkHeader:]

		switch chunkID {
		case fmtChunk:
			parseErr := parseFmtChunk(body, chunkSize, info)
			if parseErr != nil {
				return false, false, parseErr
			}

			haveFmt = true
		case dataChunk:
			// The data chunk of a streamed WAV may claim more bytes
			// than are present; clamp to what we actually have.
			info.DataBytes = min(chunkSize, len(body))
			haveData = true
		}

		// Chunks are word-aligned.
		offset += chunkHeader + chunkSize + chunkSize%2
	}

	return haveFmt, haveData, nil
}

func parseFmtChunk(body []byte, size int, info *Info) error {
	if size < fmtMinSize || len(body) < fmtMinSize {
		return fmt.Errorf("%w: fmt chunk of %d bytes", ErrTruncated, size)
	}

	format := binary.LittleEndian.Uint16(body[0:2])
	if format != formatPCM && format != formatFloat && format != formatExtPCM {
		return fmt.Errorf("%w: format tag %d", ErrBadFormat, format)
	}

	info.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
	info.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
	info.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))

	return nil
}

func computeDuration(info *Info) time.Duration {
	bytesPerSecond := info.SampleRate * info.Channels * info.BitsPerSample / bitsPerByte
	if bytesPerSecond <= 0 {
		return 0
	}

	seconds := float64(info.DataBytes) / float64(bytesPerSecond)

	return time.Duration(seconds * float64(time.Second))
}

// EncodeHeader builds a canonical 44-byte PCM WAV header followed by pcm.
// It exists for tests and for engines that emit raw PCM.
func EncodeHeader(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	blockAlign := channels * bitsPerSample / bitsPerByte
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer

	buf.WriteString(riffMagic)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString(waveMagic)
	buf.WriteString(fmtChunk)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(fmtMinSize))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(formatPCM))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString(dataChunk)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
