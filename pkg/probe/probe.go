// Package probe extracts duration and codec metadata from a media source by
// running the encoder in a no-output mode.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/framecast/pkg/ports"
)

// DefaultTimeout bounds how long a probe waits for metadata to appear.
const DefaultTimeout = 10 * time.Second

// ErrTimeout is returned when the encoder never reports codec metadata
// within the probe's bounded wait.
var ErrTimeout = errors.New("probe: no codec metadata before timeout")

// Option configures the prober.
type Option func(*Prober)

// WithTimeout overrides the metadata wait bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// Prober runs single-attempt metadata probes.
type Prober struct {
	runner  ports.EncoderRunner
	timeout time.Duration
	logger  ports.Logger
}

// New constructs a Prober.
func New(runner ports.EncoderRunner, logger ports.Logger, opts ...Option) *Prober {
	p := &Prober{
		runner:  runner,
		timeout: DefaultTimeout,
		logger:  logger.WithComponent("probe"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe inspects sourcePath and returns its codec metadata. The encoder is
// spawned with output discarded and terminated as soon as the first metadata
// event arrives; the full source is never read. One attempt, no retry.
func (p *Prober) Probe(ctx context.Context, sourcePath string) (ports.CodecData, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	infoCh := make(chan ports.CodecData, 1)
	events := ports.EncoderEvents{
		OnCodecInfo: func(data ports.CodecData) {
			select {
			case infoCh <- data:
			default:
			}
		},
	}

	proc, err := p.runner.Spawn(ctx, ports.EncoderSpec{InputPath: sourcePath}, events)
	if err != nil {
		return ports.CodecData{}, fmt.Errorf("probe %s: %w", sourcePath, err)
	}

	select {
	case data := <-infoCh:
		p.logger.Debug("Probed %s: %.2fs %s", sourcePath, data.DurationSeconds, data.CodecName)
		proc.Kill()
		<-proc.Done()
		return data, nil

	case <-proc.Done():
		// Metadata can race process exit on very short sources.
		select {
		case data := <-infoCh:
			return data, nil
		default:
		}
		if err := proc.Err(); err != nil {
			return ports.CodecData{}, fmt.Errorf("probe failed: %w", err)
		}
		return ports.CodecData{}, fmt.Errorf("probe %s: process exited without metadata", sourcePath)

	case <-ctx.Done():
		proc.Kill()
		<-proc.Done()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ports.CodecData{}, ErrTimeout
		}
		return ports.CodecData{}, ctx.Err()
	}
}
