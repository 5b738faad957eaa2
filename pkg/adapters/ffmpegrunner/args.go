package ffmpegrunner

import (
	"strconv"

	"github.com/user/framecast/pkg/ports"
)

// Default presets per input mode. Live capture favors encoding speed so the
// pipe never lags the producer; file re-encoding favors compression.
const (
	capturePreset  = "ultrafast"
	compressPreset = "fast"
)

// BuildArgs assembles the ffmpeg command line for a spec. The result is
// deterministic: equal specs produce identical argument lists.
func BuildArgs(spec ports.EncoderSpec) []string {
	args := []string{"-hide_banner"}

	if spec.InputPath == "" {
		// Frames arrive as discrete JPEG images on stdin at an
		// unpredictable rate; wallclock timestamps keep the output
		// timeline aligned with real time.
		args = append(args,
			"-f", "image2pipe",
			"-use_wallclock_as_timestamps", "1",
			"-i", "pipe:0",
		)
	} else {
		args = append(args, "-i", spec.InputPath)
	}

	if spec.OutputPath == "" {
		// Probe mode: decode only, discard the result.
		args = append(args, "-f", "null", "-")
		return args
	}

	preset := spec.Preset
	if preset == "" {
		if spec.InputPath == "" {
			preset = capturePreset
		} else {
			preset = compressPreset
		}
	}

	args = append(args, "-c:v", "libx264", "-preset", preset)
	if spec.Quality > 0 {
		args = append(args, "-crf", strconv.Itoa(spec.Quality))
	}
	args = append(args, "-pix_fmt", "yuv420p", "-y", spec.OutputPath)
	return args
}
