package audio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// WAVHeader holds the parsed RIFF/WAV header fields.
type WAVHeader struct {
	SampleRate    uint32
	BitsPerSample uint16
	NumChannels   uint16
	NumSamples    int // frames per channel
}

// riffHeader opens every WAV stream.
type riffHeader struct {
	ID     [4]byte // "RIFF"
	Size   uint32
	Format [4]byte // "WAVE"
}

type chunkHeader struct {
	ID   [4]byte
	Size uint32
}

// fmtChunk is the common 16-byte body of a "fmt " chunk.
type fmtChunk struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

const fmtChunkSize = 16

// ReadWAV reads a 16-bit PCM WAV stream and returns mono float64 samples in
// [-1.0, 1.0]. Multi-channel audio is downmixed by averaging the channels.
// The sample rate is reported in the header and left unchanged.
func ReadWAV(r io.ReadSeeker) ([]float64, WAVHeader, error) {
	var header WAVHeader

	var riff riffHeader
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return nil, header, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff.ID[:]) != "RIFF" {
		return nil, header, errors.New("not a RIFF file")
	}
	if string(riff.Format[:]) != "WAVE" {
		return nil, header, errors.New("not a WAVE file")
	}

	haveFmt := false
	for {
		var ch chunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, header, fmt.Errorf("read chunk header: %w", err)
		}

		switch string(ch.ID[:]) {
		case "fmt ":
			if err := readFmtChunk(r, ch.Size, &header); err != nil {
				return nil, header, err
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, header, errors.New("data chunk before fmt chunk")
			}
			samples, err := readDataChunk(r, ch.Size, &header)
			if err != nil {
				return nil, header, err
			}
			return samples, header, nil
		default:
			// Chunks are word aligned.
			if err := skipBytes(r, int64(ch.Size)+int64(ch.Size%2)); err != nil {
				return nil, header, fmt.Errorf("skip chunk %q: %w", ch.ID, err)
			}
		}
	}

	if !haveFmt {
		return nil, header, errors.New("missing fmt chunk")
	}
	return nil, header, errors.New("missing data chunk")
}

// ReadWAVFile opens path and reads it with ReadWAV.
func ReadWAVFile(path string) ([]float64, WAVHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WAVHeader{}, err
	}
	defer f.Close()
	return ReadWAV(f)
}

func skipBytes(r io.Seeker, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := r.Seek(n, io.SeekCurrent)
	return err
}

func readFmtChunk(r io.ReadSeeker, size uint32, h *WAVHeader) error {
	if size < fmtChunkSize {
		return fmt.Errorf("fmt chunk too short (%d bytes)", size)
	}
	var fc fmtChunk
	if err := binary.Read(r, binary.LittleEndian, &fc); err != nil {
		return fmt.Errorf("read fmt chunk: %w", err)
	}
	switch {
	case fc.AudioFormat != formatPCM && fc.AudioFormat != formatExtensible:
		return fmt.Errorf("unsupported audio format %d (only PCM supported)", fc.AudioFormat)
	case fc.NumChannels == 0:
		return errors.New("zero channel count")
	case fc.SampleRate == 0:
		return errors.New("zero sample rate")
	case fc.BitsPerSample != 16:
		return fmt.Errorf("unsupported bits per sample %d (only 16 supported)", fc.BitsPerSample)
	}
	h.NumChannels = fc.NumChannels
	h.SampleRate = fc.SampleRate
	h.BitsPerSample = fc.BitsPerSample

	consumed := int64(fmtChunkSize)

	// WAVE_FORMAT_EXTENSIBLE: cbSize(2) validBits(2) channelMask(4) subFormat GUID(16).
	// The first two GUID bytes carry the actual format tag.
	if fc.AudioFormat == formatExtensible {
		if size < fmtChunkSize+24 {
			return fmt.Errorf("extensible fmt chunk too short (%d bytes)", size)
		}
		var ext struct {
			CbSize      uint16
			ValidBits   uint16
			ChannelMask uint32
			SubFormat   uint16
		}
		if err := binary.Read(r, binary.LittleEndian, &ext); err != nil {
			return fmt.Errorf("read extensible fields: %w", err)
		}
		if ext.SubFormat != formatPCM {
			return fmt.Errorf("unsupported sub format %d (only PCM supported)", ext.SubFormat)
		}
		consumed += 10
	}

	if err := skipBytes(r, int64(size)-consumed+int64(size%2)); err != nil {
		return fmt.Errorf("skip extra fmt bytes: %w", err)
	}
	return nil
}

func readDataChunk(r io.Reader, size uint32, h *WAVHeader) ([]float64, error) {
	channels := int(h.NumChannels)
	frameBytes := int(h.BitsPerSample) / 8 * channels

	// Streaming writers may leave the data size unset (0 or 0xFFFFFFFF);
	// read what is actually present up to the declared size.
	buf, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, fmt.Errorf("read PCM data: %w", err)
	}
	numFrames := len(buf) / frameBytes
	h.NumSamples = numFrames

	sample := func(i int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(buf[i*2:])))
	}

	samples := make([]float64, numFrames)
	if channels == 1 {
		for i := range samples {
			samples[i] = sample(i) / 32768.0
		}
		return samples, nil
	}

	for i := range samples {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += sample(i*channels + c)
		}
		samples[i] = sum / float64(channels) / 32768.0
	}
	return samples, nil
}

// WriteWAV writes mono samples as a 16-bit PCM WAV stream at sampleRate.
// Samples outside [-1.0, 1.0] are clipped.
func WriteWAV(w io.Writer, samples []float64, sampleRate int) error {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate) * channels * bitsPerSample / 8
	blockAlign := uint16(channels * bitsPerSample / 8)

	bw := bufio.NewWriter(w)
	hdr := struct {
		Riff riffHeader
		Fmt  chunkHeader
		Body fmtChunk
		Data chunkHeader
	}{
		Riff: riffHeader{ID: [4]byte{'R', 'I', 'F', 'F'}, Size: 36 + dataSize, Format: [4]byte{'W', 'A', 'V', 'E'}},
		Fmt:  chunkHeader{ID: [4]byte{'f', 'm', 't', ' '}, Size: fmtChunkSize},
		Body: fmtChunk{
			AudioFormat:   formatPCM,
			NumChannels:   channels,
			SampleRate:    uint32(sampleRate),
			ByteRate:      byteRate,
			BlockAlign:    blockAlign,
			BitsPerSample: bitsPerSample,
		},
		Data: chunkHeader{ID: [4]byte{'d', 'a', 't', 'a'}, Size: dataSize},
	}
	if err := binary.Write(bw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write WAV header: %w", err)
	}

	pcm := make([]byte, 2)
	for _, s := range samples {
		binary.LittleEndian.PutUint16(pcm, uint16(toInt16(s)))
		if _, err := bw.Write(pcm); err != nil {
			return fmt.Errorf("write PCM data: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write WAV: %w", err)
	}
	return nil
}

// WriteWAVFile writes samples to path, replacing any existing file.
func WriteWAVFile(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// toInt16 is the inverse of the s/32768 scaling used by ReadWAV, so a
// read-write round trip is lossless.
func toInt16(s float64) int16 {
	v := math.Round(s * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
