// ABOUTME: Offline converter from raw or base64 PCM to WAV
// ABOUTME: Also re-encodes MP3, FLAC, Ogg, AIFF and WAV sound effects as 16-bit WAV
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lotsdraw/fortune-audio/pkg/audio"
	"github.com/lotsdraw/fortune-audio/pkg/audio/decode"
	"github.com/lotsdraw/fortune-audio/pkg/audio/encode"
	"github.com/lotsdraw/fortune-audio/pkg/audio/resample"
)

var (
	inFile     = flag.String("in", "", "Input file (required)")
	outFile    = flag.String("out", "", "Output WAV file (default: input name with .wav)")
	sampleRate = flag.Int("rate", 24000, "Sample rate of raw PCM input")
	channels   = flag.Int("channels", 1, "Channel count of raw PCM input")
	isBase64   = flag.Bool("base64", false, "Input is base64 text")
	container  = flag.Bool("container", false, "Input is an encoded audio file (mp3, flac, ogg, aiff, wav)")
	outRate    = flag.Int("out-rate", 0, "Resample to this rate (default: keep)")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *inFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	out := *outFile
	if out == "" {
		out = strings.TrimSuffix(*inFile, filepath.Ext(*inFile)) + ".wav"
		if out == *inFile {
			out += ".wav"
		}
	}

	data, err := os.ReadFile(*inFile)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	buf, pcm, err := load(data)
	if err != nil {
		log.Fatalf("Failed to decode %s: %v", *inFile, err)
	}

	if *outRate > 0 && *outRate != buf.SampleRate {
		buf = resample.Convert(buf, *outRate)
		pcm = nil
	}
	if pcm == nil {
		pcm = encode.PCM16(buf, 1)
	}

	blob := encode.WAV(pcm, buf.SampleRate, buf.NumberOfChannels())
	if err := blob.Save(out); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	fmt.Printf("%s: %d Hz, %d ch, %d frames (%s), %d bytes\n",
		out, buf.SampleRate, buf.NumberOfChannels(), buf.Length(), buf.Duration(), blob.Size())
}

// load turns the input into a float buffer. Raw PCM goes through the
// strict decoder so malformed framing is reported instead of padded, and
// is also returned as-is so it can be written without requantizing.
func load(data []byte) (*audio.Buffer, []byte, error) {
	if *container {
		buf, err := decode.Container(data)
		return buf, nil, err
	}

	if *isBase64 {
		raw, err := decode.Base64(string(data))
		if err != nil {
			return nil, nil, err
		}
		data = raw
	}
	buf, err := decode.PCM(data, nil, *sampleRate, *channels)
	if err != nil {
		return nil, nil, err
	}
	return buf, data, nil
}
