// Package mp4probe reads duration and codec metadata straight from MP4
// container boxes, without spawning a subprocess.
package mp4probe

import (
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framecast/pkg/ports"
)

// Inspect parses the MP4 file at path and returns its codec metadata.
func Inspect(path string) (ports.CodecData, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.CodecData{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return InspectReader(f)
}

// InspectReader parses MP4 data from an io.ReadSeeker.
func InspectReader(reader io.ReadSeeker) (ports.CodecData, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return ports.CodecData{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil || moov.Mvhd == nil {
		return ports.CodecData{}, fmt.Errorf("no movie header found")
	}

	data := ports.CodecData{}
	if moov.Mvhd.Timescale > 0 {
		data.DurationSeconds = float64(moov.Mvhd.Duration) / float64(moov.Mvhd.Timescale)
	}

	for _, trak := range moov.Traks {
		if codec := videoCodec(trak); codec != "" {
			data.CodecName = codec
			// Track duration is more precise than the movie header
			// when edit lists trim the timeline.
			if trak.Mdia != nil && trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
				secs := float64(trak.Mdia.Mdhd.Duration) / float64(trak.Mdia.Mdhd.Timescale)
				if secs > 0 {
					data.DurationSeconds = secs
				}
			}
			break
		}
	}

	if data.CodecName == "" {
		return ports.CodecData{}, fmt.Errorf("no video track found")
	}
	return data, nil
}

// videoCodec returns the codec name for a video track, or "" for non-video
// tracks and unrecognized sample entries.
func videoCodec(trak *mp4.TrakBox) string {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return ""
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ""
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return "h264"
		case "hvc1", "hev1":
			return "hevc"
		case "av01":
			return "av1"
		case "vp09":
			return "vp9"
		}
	}
	return ""
}
