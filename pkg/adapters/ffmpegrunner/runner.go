// Package ffmpegrunner runs ffmpeg subprocesses and surfaces their
// diagnostics as events.
package ffmpegrunner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/user/framecast/pkg/ports"
)

// tailLimit bounds how much of each output stream is retained for error
// reporting.
const tailLimit = 16 * 1024

// Option configures the runner.
type Option func(*Runner)

// WithBinary overrides ffmpeg path resolution with an explicit executable.
func WithBinary(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.binary = path
		}
	}
}

// Runner implements ports.EncoderRunner by spawning ffmpeg.
type Runner struct {
	binary string
}

// New constructs a Runner. Without WithBinary the executable is resolved at
// spawn time via FindFFmpeg.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Spawn launches one ffmpeg process for the given spec. The returned handle
// owns the process; it is reaped on every exit path.
func (r *Runner) Spawn(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
	binary, err := FindFFmpeg(r.binary)
	if err != nil {
		return nil, err
	}

	args := BuildArgs(spec)
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec

	p := &process{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	if spec.InputPath == "" {
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %w", err)
		}
		p.stdin = stdin
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	if events.OnStart != nil {
		events.OnStart(binary + " " + strings.Join(args, " "))
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		p.drainStdout(stdout)
	}()
	go func() {
		defer readers.Done()
		p.scanStderr(stderr, events)
	}()

	go func() {
		readers.Wait()
		err := cmd.Wait()
		p.mu.Lock()
		if err != nil && !p.killed {
			p.err = &ports.EncoderError{
				Err:    err,
				Stdout: p.stdoutTail.String(),
				Stderr: p.stderrTail.String(),
			}
		}
		p.mu.Unlock()
		close(p.done)
	}()

	return p, nil
}

var _ ports.EncoderRunner = (*Runner)(nil)

// process is the handle on one running ffmpeg subprocess.
type process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	done  chan struct{}

	mu         sync.Mutex
	err        error
	killed     bool
	stdoutTail tailBuffer
	stderrTail tailBuffer
}

func (p *process) Input() io.WriteCloser {
	return p.stdin
}

func (p *process) Done() <-chan struct{} {
	return p.done
}

func (p *process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Kill terminates the subprocess early. A killed process reports a nil Err:
// early termination was requested, not a failure.
func (p *process) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	if p.stdin != nil {
		p.stdin.Close()
	}
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

func (p *process) drainStdout(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.mu.Lock()
		p.stdoutTail.append(scanner.Text())
		p.mu.Unlock()
	}
}

// scanStderr reads ffmpeg diagnostics. Status lines are \r-terminated, so
// the scanner splits on both \r and \n.
func (p *process) scanStderr(stderr io.Reader, events ports.EncoderEvents) {
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanCRLines)

	var info ports.CodecData
	infoSent := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		p.mu.Lock()
		p.stderrTail.append(line)
		p.mu.Unlock()

		if events.OnStderr != nil {
			events.OnStderr(line)
		}

		if !infoSent {
			if secs, ok := parseDuration(line); ok {
				info.DurationSeconds = secs
			}
			if codec, ok := parseCodec(line); ok {
				info.CodecName = codec
			}
			// Duration precedes the stream descriptions; the codec
			// line completes the metadata.
			if info.CodecName != "" {
				infoSent = true
				if events.OnCodecInfo != nil {
					events.OnCodecInfo(info)
				}
			}
		}

		if timemark, ok := parseTimemark(line); ok {
			if events.OnProgress != nil {
				events.OnProgress(timemark)
			}
		}
	}
}

// scanCRLines is a bufio.SplitFunc that treats both \r and \n as line
// terminators. ffmpeg rewrites its status line with bare carriage returns.
func scanCRLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// tailBuffer keeps the trailing lines of an output stream, bounded by
// tailLimit bytes. Encoder failure details land at the end of the stream.
type tailBuffer struct {
	lines []string
	n     int
}

func (t *tailBuffer) append(line string) {
	t.lines = append(t.lines, line)
	t.n += len(line) + 1
	for t.n > tailLimit && len(t.lines) > 1 {
		t.n -= len(t.lines[0]) + 1
		t.lines = t.lines[1:]
	}
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "\n")
}
