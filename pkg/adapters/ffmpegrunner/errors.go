package ffmpegrunner

import "errors"

// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
var ErrFFmpegNotFound = errors.New("ffmpeg not found: please install ffmpeg, set FFMPEG_PATH environment variable, or configure ffmpeg_path")
