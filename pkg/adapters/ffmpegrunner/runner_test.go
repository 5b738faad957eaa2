package ffmpegrunner

import (
	"bufio"
	"strings"
	"testing"

	"github.com/user/framecast/pkg/ports"
)

func TestScanCRLinesSplitsOnCarriageReturn(t *testing.T) {
	input := "line one\nframe= 1 time=00:00:01.00\rframe= 2 time=00:00:02.00\rlast line"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(scanCRLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	want := []string{
		"line one",
		"frame= 1 time=00:00:01.00",
		"frame= 2 time=00:00:02.00",
		"last line",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestScanStderrEmitsEvents(t *testing.T) {
	stderr := strings.Join([]string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'in.mp4':",
		"  Duration: 00:00:10.00, start: 0.000000, bitrate: 1234 kb/s",
		"  Stream #0:0(und): Video: h264 (High) (avc1 / 0x31637661), yuv420p, 1280x720",
		"frame=   30 fps= 30 q=28.0 size= 128kB time=00:00:01.00 bitrate= 1048kbits/s\r" +
			"frame=   60 fps= 30 q=28.0 size= 256kB time=00:00:02.00 bitrate= 1048kbits/s",
	}, "\n")

	var codecInfos []ports.CodecData
	var timemarks []string
	var stderrLines int
	events := ports.EncoderEvents{
		OnStderr:    func(line string) { stderrLines++ },
		OnCodecInfo: func(data ports.CodecData) { codecInfos = append(codecInfos, data) },
		OnProgress:  func(timemark string) { timemarks = append(timemarks, timemark) },
	}

	p := &process{done: make(chan struct{})}
	p.scanStderr(strings.NewReader(stderr), events)

	if len(codecInfos) != 1 {
		t.Fatalf("codec info fired %d times, want once", len(codecInfos))
	}
	if codecInfos[0].DurationSeconds != 10.0 || codecInfos[0].CodecName != "h264" {
		t.Errorf("codec info = %+v", codecInfos[0])
	}
	if len(timemarks) != 2 || timemarks[0] != "00:00:01.00" || timemarks[1] != "00:00:02.00" {
		t.Errorf("timemarks = %v", timemarks)
	}
	if stderrLines == 0 {
		t.Error("no stderr lines forwarded")
	}

	if got := p.stderrTail.String(); !strings.Contains(got, "Duration: 00:00:10.00") {
		t.Errorf("stderr tail missing diagnostics: %q", got)
	}
}

func TestTailBufferKeepsTrailingLines(t *testing.T) {
	var tail tailBuffer
	long := strings.Repeat("x", 1024)
	for i := 0; i < 100; i++ {
		tail.append(long)
	}
	tail.append("the actual error")

	out := tail.String()
	if len(out) > tailLimit+1024 {
		t.Errorf("tail grew to %d bytes", len(out))
	}
	if !strings.HasSuffix(out, "the actual error") {
		t.Error("tail dropped the most recent line")
	}
}

func TestEncoderErrorFormatsStderr(t *testing.T) {
	err := &ports.EncoderError{
		Err:    &exitError{},
		Stderr: "Conversion failed!",
	}
	msg := err.Error()
	if !strings.Contains(msg, "Conversion failed!") {
		t.Errorf("error message %q omits stderr", msg)
	}
}

type exitError struct{}

func (e *exitError) Error() string { return "exit status 1" }
