package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// DefaultSampleRate is the rate every decoded waveform and clip uses.
const DefaultSampleRate = 16000

// Resample converts mono samples from one rate to another.
// The result has round(len(samples) * to / from) samples.
func Resample(samples []float64, from, to int) ([]float64, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", from, to)
	}
	if from == to || len(samples) == 0 {
		return samples, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	want := int(math.Round(float64(len(samples)) * float64(to) / float64(from)))

	// Zero padding pushes the filter tail out of the resampler.
	padded := make([]float64, len(samples)+from/10)
	copy(padded, samples)

	out, err := rs.Process(padded)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}

	if len(out) >= want {
		return out[:want], nil
	}
	grown := make([]float64, want)
	copy(grown, out)
	return grown, nil
}

// LoadMono decodes the WAV file at path into mono samples at sampleRate.
func LoadMono(path string, sampleRate int) ([]float64, error) {
	samples, h, err := ReadWAVFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	out, err := Resample(samples, int(h.SampleRate), sampleRate)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// Slice returns the samples between start and end seconds, using
// floor(t * sampleRate) for both bounds and clamping to the waveform.
func Slice(samples []float64, start, end float64, sampleRate int) []float64 {
	lo := sampleIndex(start, sampleRate, len(samples))
	hi := sampleIndex(end, sampleRate, len(samples))
	if hi <= lo {
		return nil
	}
	return samples[lo:hi]
}

func sampleIndex(t float64, sampleRate, n int) int {
	i := int(math.Floor(t * float64(sampleRate)))
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
