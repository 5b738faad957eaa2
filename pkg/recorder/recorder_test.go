package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/user/framecast/pkg/adapters/logger"
	"github.com/user/framecast/pkg/mocks"
	"github.com/user/framecast/pkg/ports"
	"github.com/user/framecast/pkg/probe"
)

// recordHarness dispatches mock runner spawns by spec shape: piped input is
// the capture encoder, discarded output is a probe, anything else is the
// compression encoder.
type recordHarness struct {
	captureProc  *mocks.EncoderProcess
	compressProc *mocks.EncoderProcess
	runner       *mocks.EncoderRunner

	mu           sync.Mutex
	compressSpec *ports.EncoderSpec
}

func newRecordHarness() *recordHarness {
	h := &recordHarness{
		captureProc:  mocks.NewEncoderProcess(),
		compressProc: mocks.NewEncoderProcess(),
	}
	h.runner = &mocks.EncoderRunner{
		SpawnFunc: func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
			switch {
			case spec.InputPath == "" && spec.OutputPath != "":
				return h.captureProc, nil
			case spec.OutputPath == "":
				proc := mocks.NewEncoderProcess()
				if events.OnCodecInfo != nil {
					events.OnCodecInfo(ports.CodecData{DurationSeconds: 10, CodecName: "h264"})
				}
				return proc, nil
			default:
				h.mu.Lock()
				s := spec
				h.compressSpec = &s
				h.mu.Unlock()
				return h.compressProc, nil
			}
		},
	}
	return h
}

func (h *recordHarness) compressSpawned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compressSpec != nil
}

// finishOnInputClose lets a mock process exit once its stdin is closed,
// like a real encoder draining its pipe.
func finishOnInputClose(proc *mocks.EncoderProcess, err error) {
	go func() {
		for !proc.InputClosed() {
			time.Sleep(time.Millisecond)
		}
		proc.Finish(err)
	}()
}

func newTestRecorder(h *recordHarness, fs ports.FileSystem, sink ports.DebugSink) *Recorder {
	log := logger.NewNoop()
	return New(h.runner, probe.New(h.runner, log), fs, sink, log)
}

func TestRecordPumpsFramesIntoCapture(t *testing.T) {
	h := newRecordHarness()
	fs := mocks.NewFileSystem()
	fs.WriteFile("out.mp4", make([]byte, 100))
	sink := mocks.NewDebugSink(true)

	source := mocks.NewFrameSource()
	go func() {
		for i := 0; i < 3; i++ {
			source.Emit(ports.SourceFrame{TimestampMs: i * 100, Data: []byte{byte(i)}})
		}
		source.Finish()
	}()

	finishOnInputClose(h.captureProc, nil)

	summary, err := newTestRecorder(h, fs, sink).Record(context.Background(), source, Config{
		OutputPath: "out.mp4",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if summary.Frames != 3 {
		t.Errorf("frames = %d, want 3", summary.Frames)
	}
	if summary.OutputBytes != 100 {
		t.Errorf("output bytes = %d, want 100", summary.OutputBytes)
	}
	if len(h.captureProc.Written()) == 0 {
		t.Error("no frame bytes reached the capture encoder")
	}
	if sink.FrameCount() != 3 {
		t.Errorf("sink saved %d frames, want 3", sink.FrameCount())
	}
	if !source.StopCalled {
		t.Error("frame source not stopped")
	}

	var decoded Summary
	if err := json.Unmarshal(sink.SummaryJSON, &decoded); err != nil {
		t.Fatalf("summary JSON invalid: %v", err)
	}
	if decoded.Frames != 3 {
		t.Errorf("summary JSON frames = %d", decoded.Frames)
	}
}

func TestRecordRunsCompressionPass(t *testing.T) {
	h := newRecordHarness()
	fs := mocks.NewFileSystem()
	fs.WriteFile("out.mp4", []byte("raw-capture"))
	sink := mocks.NewDebugSink(false)

	source := mocks.NewFrameSource()
	go func() {
		source.Emit(ports.SourceFrame{Data: []byte("frame")})
		source.Finish()
	}()

	finishOnInputClose(h.captureProc, nil)

	// Play the part of the compression encoder: write the temp output and
	// exit once spawned.
	go func() {
		for !h.compressSpawned() {
			time.Sleep(time.Millisecond)
		}
		fs.WriteFile("out-compressing.mp4", []byte("compressed"))
		h.compressProc.Finish(nil)
	}()

	summary, err := newTestRecorder(h, fs, sink).Record(context.Background(), source, Config{
		OutputPath:       "out.mp4",
		CompressionLevel: 30,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if summary.CompressionLevel != 30 {
		t.Errorf("compression level = %d, want 30", summary.CompressionLevel)
	}
	data, ok := fs.GetFile("out.mp4")
	if !ok || string(data) != "compressed" {
		t.Errorf("out.mp4 = %q, want compressed output", data)
	}
	h.mu.Lock()
	spec := *h.compressSpec
	h.mu.Unlock()
	if spec.Quality != 30 {
		t.Errorf("compression spec quality = %d, want 30", spec.Quality)
	}
}

func TestRecordSkipsCompressionForEmptyCapture(t *testing.T) {
	h := newRecordHarness()
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink(false)

	source := mocks.NewFrameSource()
	go source.Finish()

	finishOnInputClose(h.captureProc, errors.New("pipe:0: End of file"))

	summary, err := newTestRecorder(h, fs, sink).Record(context.Background(), source, Config{
		OutputPath:       "out.mp4",
		CompressionLevel: 30,
	})
	if err != nil {
		t.Fatalf("empty capture should resolve cleanly, got %v", err)
	}
	if summary.Frames != 0 {
		t.Errorf("frames = %d, want 0", summary.Frames)
	}
	if h.compressSpawned() {
		t.Error("compression ran for an empty capture")
	}
}

func TestRecordSurfacesEncoderFailure(t *testing.T) {
	h := newRecordHarness()
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink(false)

	source := mocks.NewFrameSource()
	go func() {
		source.Emit(ports.SourceFrame{Data: []byte("frame")})
		source.Finish()
	}()

	finishOnInputClose(h.captureProc, errors.New("exit status 1"))

	_, err := newTestRecorder(h, fs, sink).Record(context.Background(), source, Config{
		OutputPath: "out.mp4",
	})
	if err == nil {
		t.Fatal("Record should fail when the capture encoder fails after frames")
	}
}

func TestRecordRequiresOutputPath(t *testing.T) {
	h := newRecordHarness()
	source := mocks.NewFrameSource()
	_, err := newTestRecorder(h, mocks.NewFileSystem(), mocks.NewDebugSink(false)).
		Record(context.Background(), source, Config{})
	if err == nil {
		t.Fatal("Record without output path should fail")
	}
}

func TestRecordHonorsTimeout(t *testing.T) {
	h := newRecordHarness()
	fs := mocks.NewFileSystem()
	sink := mocks.NewDebugSink(false)

	// The source never finishes; the run timeout must end the pump.
	source := mocks.NewFrameSource()
	finishOnInputClose(h.captureProc, nil)

	done := make(chan struct{})
	go func() {
		newTestRecorder(h, fs, sink).Record(context.Background(), source, Config{
			OutputPath: "out.mp4",
			TimeoutMs:  50,
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record did not return after the run timeout")
	}
}
