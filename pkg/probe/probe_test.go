package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/framecast/pkg/adapters/logger"
	"github.com/user/framecast/pkg/mocks"
	"github.com/user/framecast/pkg/ports"
)

func TestProbeReturnsMetadataAndKillsProcess(t *testing.T) {
	proc := mocks.NewEncoderProcess()
	runner := &mocks.EncoderRunner{
		SpawnFunc: func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
			if spec.InputPath != "video.mp4" {
				t.Errorf("input path = %q", spec.InputPath)
			}
			if spec.OutputPath != "" {
				t.Errorf("probe spawn must discard output, got %q", spec.OutputPath)
			}
			events.OnCodecInfo(ports.CodecData{DurationSeconds: 4.5, CodecName: "h264"})
			return proc, nil
		},
	}

	prober := New(runner, logger.NewNoop())
	data, err := prober.Probe(context.Background(), "video.mp4")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if data.DurationSeconds != 4.5 || data.CodecName != "h264" {
		t.Errorf("data = %+v", data)
	}
	if !proc.Killed() {
		t.Error("process not killed after metadata arrived")
	}
}

func TestProbeSurfacesProcessFailure(t *testing.T) {
	runner := &mocks.EncoderRunner{
		SpawnFunc: func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
			proc := mocks.NewEncoderProcess()
			proc.Finish(errors.New("no such file"))
			return proc, nil
		},
	}

	prober := New(runner, logger.NewNoop())
	if _, err := prober.Probe(context.Background(), "missing.mp4"); err == nil {
		t.Fatal("Probe should fail when the process fails")
	}
}

func TestProbeFailsWhenProcessExitsWithoutMetadata(t *testing.T) {
	runner := &mocks.EncoderRunner{
		SpawnFunc: func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
			proc := mocks.NewEncoderProcess()
			proc.Finish(nil)
			return proc, nil
		},
	}

	prober := New(runner, logger.NewNoop())
	if _, err := prober.Probe(context.Background(), "empty.mp4"); err == nil {
		t.Fatal("Probe should fail when no metadata was reported")
	}
}

func TestProbeMetadataWinsRaceWithCleanExit(t *testing.T) {
	// A very short source can report metadata and exit almost at once;
	// whichever way the select goes, the metadata must come through.
	runner := &mocks.EncoderRunner{
		SpawnFunc: func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
			proc := mocks.NewEncoderProcess()
			events.OnCodecInfo(ports.CodecData{DurationSeconds: 0.1, CodecName: "h264"})
			proc.Finish(nil)
			return proc, nil
		},
	}

	prober := New(runner, logger.NewNoop())
	data, err := prober.Probe(context.Background(), "short.mp4")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if data.CodecName != "h264" {
		t.Errorf("data = %+v", data)
	}
}

func TestProbeTimesOut(t *testing.T) {
	proc := mocks.NewEncoderProcess()
	runner := &mocks.EncoderRunner{
		SpawnFunc: func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
			// Never reports metadata, never exits on its own.
			return proc, nil
		},
	}

	prober := New(runner, logger.NewNoop(), WithTimeout(20*time.Millisecond))
	_, err := prober.Probe(context.Background(), "stuck.mp4")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Probe = %v, want ErrTimeout", err)
	}
	if !proc.Killed() {
		t.Error("stuck process not killed on timeout")
	}
}

func TestProbeSpawnErrorIsWrapped(t *testing.T) {
	wantErr := errors.New("ffmpeg not found")
	runner := &mocks.EncoderRunner{
		SpawnFunc: func(ctx context.Context, spec ports.EncoderSpec, events ports.EncoderEvents) (ports.EncoderProcess, error) {
			return nil, wantErr
		},
	}

	prober := New(runner, logger.NewNoop())
	if _, err := prober.Probe(context.Background(), "video.mp4"); !errors.Is(err, wantErr) {
		t.Fatalf("Probe = %v, want wrapped %v", err, wantErr)
	}
}
