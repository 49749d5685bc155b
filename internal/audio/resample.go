package audio

// Mono averages interleaved channels into one.
func (b Buffer) Mono() Buffer {
	if b.Channels <= 1 {
		return b
	}

	frames := b.Frames()
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < b.Channels; c++ {
			sum += b.Samples[i*b.Channels+c]
		}
		out[i] = sum / float32(b.Channels)
	}

	return Buffer{SampleRate: b.SampleRate, Channels: 1, Samples: out}
}

// Resample converts a mono buffer to rate with linear interpolation.
func (b Buffer) Resample(rate int) Buffer {
	if rate <= 0 || b.SampleRate <= 0 || rate == b.SampleRate || len(b.Samples) == 0 {
		if rate > 0 {
			b.SampleRate = rate
		}
		return b
	}

	mono := b.Mono()
	n := int(int64(len(mono.Samples)) * int64(rate) / int64(b.SampleRate))
	out := make([]float32, n)
	step := float64(b.SampleRate) / float64(rate)
	last := len(mono.Samples) - 1
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= last {
			out[i] = mono.Samples[last]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = mono.Samples[idx]*(1-frac) + mono.Samples[idx+1]*frac
	}

	return Buffer{SampleRate: rate, Channels: 1, Samples: out}
}
