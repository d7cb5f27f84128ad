// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Also up/down-mixes channels to match an output device
package resample

import "github.com/lotsdraw/fortune-audio/pkg/audio"

// OutputFrames returns how many frames Convert produces for inFrames input
// frames going from inRate to outRate
func OutputFrames(inFrames, inRate, outRate int) int {
	if inFrames <= 0 || inRate <= 0 || outRate <= 0 {
		return 0
	}
	return int((int64(inFrames)*int64(outRate) + int64(inRate) - 1) / int64(inRate))
}

// Convert returns buf converted to outRate using linear interpolation.
// buf is returned unchanged when the rates already match.
func Convert(buf *audio.Buffer, outRate int) *audio.Buffer {
	if buf.SampleRate == outRate || outRate <= 0 || buf.SampleRate <= 0 {
		return buf
	}

	inFrames := buf.Length()
	outFrames := OutputFrames(inFrames, buf.SampleRate, outRate)
	out := audio.NewBuffer(buf.NumberOfChannels(), outFrames, outRate)

	ratio := float64(buf.SampleRate) / float64(outRate)
	for ch, in := range buf.Data {
		dst := out.Data[ch]
		for i := range dst {
			pos := float64(i) * ratio
			idx := int(pos)

			// Hold the last frame rather than reading past the end
			if idx >= inFrames-1 {
				dst[i] = in[inFrames-1]
				continue
			}

			frac := float32(pos - float64(idx))
			dst[i] = in[idx]*(1-frac) + in[idx+1]*frac
		}
	}

	return out
}

// Remix returns buf with exactly channels channels. Mono is duplicated to
// every output channel, multi-channel input folded to mono is averaged,
// and other layouts copy matching channels and fill the rest from the
// last input channel.
func Remix(buf *audio.Buffer, channels int) *audio.Buffer {
	inChannels := buf.NumberOfChannels()
	if inChannels == channels || channels <= 0 || inChannels == 0 {
		return buf
	}

	frames := buf.Length()
	out := audio.NewBuffer(channels, frames, buf.SampleRate)

	if channels == 1 {
		dst := out.Data[0]
		for _, in := range buf.Data {
			for i, s := range in {
				dst[i] += s
			}
		}
		scale := 1 / float32(inChannels)
		for i := range dst {
			dst[i] *= scale
		}
		return out
	}

	for ch := range out.Data {
		src := buf.Data[min(ch, inChannels-1)]
		copy(out.Data[ch], src)
	}
	return out
}
