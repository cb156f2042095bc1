package logger

import (
	"context"
	"log/slog"
)

type phaseKey struct{}

// WithPhase stores the current boot phase in ctx.
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, phaseKey{}, phase)
}

// PhaseFrom returns the boot phase stored in ctx.
func PhaseFrom(ctx context.Context) (string, bool) {
	phase, ok := ctx.Value(phaseKey{}).(string)
	return phase, ok && phase != ""
}

// PhaseExtractor adds a "phase" attribute to records logged with a phase context.
func PhaseExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		phase, ok := PhaseFrom(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("phase", phase), true
	}
}
