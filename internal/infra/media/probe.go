// Package media inspects uploaded files before they are stored.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/rs/zerolog/log"
	"github.com/tcolgate/mp3"
)

var (
	ErrNotAudio = errors.New("file is not an audio file")
	ErrNotImage = errors.New("file is not an image")
	ErrEmpty    = errors.New("file is empty")
)

// Audio is what we learn from a demo upload.
type Audio struct {
	ContentType     string
	Extension       string
	DurationSeconds int
	// Title comes from embedded tags and may be empty.
	Title string
}

// ProbeAudio sniffs the content (the client supplied type is ignored) and
// reads duration and title where the format allows. Duration and tag
// failures are not errors: the demo is stored with 0 seconds and no title.
func ProbeAudio(data []byte) (Audio, error) {
	if len(data) == 0 {
		return Audio{}, ErrEmpty
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "audio/") {
		return Audio{}, fmt.Errorf("%w: detected %s", ErrNotAudio, mt.String())
	}

	info := Audio{ContentType: mt.String(), Extension: mt.Extension()}

	secs, err := duration(info.Extension, data)
	if err != nil {
		log.Debug().Err(err).Str("content_type", info.ContentType).Msg("audio duration unavailable")
	}
	info.DurationSeconds = secs

	if md, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
		info.Title = strings.TrimSpace(md.Title())
	}
	return info, nil
}

// DemoName picks the display name of a demo: the given name, then the tag
// title, then the file name without extension.
func DemoName(given string, probed Audio, fileName string) string {
	if n := strings.TrimSpace(given); n != "" {
		return n
	}
	if probed.Title != "" {
		return probed.Title
	}
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "Demo"
	}
	return base
}

func duration(ext string, data []byte) (int, error) {
	switch ext {
	case ".mp3":
		return durationMP3(data)
	case ".flac":
		return durationFLAC(data)
	case ".wav":
		return durationWAV(data)
	default:
		return 0, fmt.Errorf("no duration reader for %q", ext)
	}
}

// durationMP3 sums frame durations. A partial stream counts what decoded.
func durationMP3(data []byte) (int, error) {
	dec := mp3.NewDecoder(bytes.NewReader(data))
	var (
		total   time.Duration
		skipped int
		frames  int
	)
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) || frames > 0 {
				break
			}
			return 0, err
		}
		total += fr.Duration()
		frames++
	}
	return int(total.Seconds() + 0.5), nil
}

func durationFLAC(data []byte) (int, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	si := stream.Info
	if si.NSamples == 0 || si.SampleRate == 0 {
		return 0, errors.New("flac stream missing sample info")
	}
	return int(float64(si.NSamples)/float64(si.SampleRate) + 0.5), nil
}

func durationWAV(data []byte) (int, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return 0, errors.New("invalid wav file")
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, err
	}
	return int(d.Seconds() + 0.5), nil
}

// CheckImage accepts any image/* content and returns the sniffed type and
// extension.
func CheckImage(data []byte) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", ErrEmpty
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return mt.String(), mt.Extension(), nil
}
