package ffmpegrunner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	durationRe = regexp.MustCompile(`Duration: (\d+):(\d{2}):(\d{2})\.(\d{2})`)
	videoRe    = regexp.MustCompile(`Video: ([A-Za-z0-9_]+)`)
	timemarkRe = regexp.MustCompile(`time=\s*(\d+:\d{2}:\d{2}\.\d+)`)
)

// parseDuration extracts the container duration in seconds from an ffmpeg
// diagnostic line ("Duration: 00:00:05.00, start: ...").
func parseDuration(line string) (float64, bool) {
	m := durationRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	centis, _ := strconv.Atoi(m[4])
	return float64(hours)*3600 + float64(mins)*60 + float64(secs) + float64(centis)/100, true
}

// parseCodec extracts the video codec name from a stream description line
// ("Stream #0:0: Video: h264 (High), yuv420p, ...").
func parseCodec(line string) (string, bool) {
	m := videoRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseTimemark extracts the playback-position timemark from an encoding
// status line ("frame= 120 fps= 30 ... time=00:00:04.00 bitrate= ...").
func parseTimemark(line string) (string, bool) {
	m := timemarkRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TimemarkSeconds converts an encoder-reported timemark ("HH:MM:SS.cc",
// hours unbounded) into seconds.
func TimemarkSeconds(timemark string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(timemark), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed timemark %q", timemark)
	}
	hours, err1 := strconv.ParseFloat(parts[0], 64)
	mins, err2 := strconv.ParseFloat(parts[1], 64)
	secs, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("malformed timemark %q", timemark)
	}
	return hours*3600 + mins*60 + secs, nil
}
