package framegen

import (
	"bytes"
	"context"
	"image/jpeg"
	"testing"
)

func TestRenderFrameProducesValidJPEG(t *testing.T) {
	gen, err := New(Options{Width: 320, Height: 240})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	data, err := gen.RenderFrame(0)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid JPEG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 240 {
		t.Errorf("dimensions = %dx%d, want 320x240", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderFrameVariesAcrossIndices(t *testing.T) {
	gen, err := New(Options{Width: 160, Height: 120})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, err := gen.RenderFrame(0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := gen.RenderFrame(30)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("distinct frame indices rendered identical output")
	}
}

func TestStartProducesBoundedSequence(t *testing.T) {
	gen, err := New(Options{Width: 80, Height: 60, FPS: 10, DurationMs: 500})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	frames, err := gen.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	count := 0
	lastTs := -1
	for frame := range frames {
		if len(frame.Data) == 0 {
			t.Fatal("empty frame data")
		}
		if frame.TimestampMs < lastTs {
			t.Errorf("timestamps regressed: %d after %d", frame.TimestampMs, lastTs)
		}
		lastTs = frame.TimestampMs
		count++
	}

	// 500ms at 10fps
	if count != 5 {
		t.Errorf("frame count = %d, want 5", count)
	}
}

func TestStopEndsStream(t *testing.T) {
	gen, err := New(Options{Width: 80, Height: 60, FPS: 10, DurationMs: 60000, Realtime: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	frames, err := gen.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-frames
	if err := gen.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := gen.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}

	for range frames {
	}
}
