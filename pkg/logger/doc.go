// Package logger builds the slog loggers used while the route table is assembled.
//
// Records are JSON encoded. A [LogHandlerDecorator] adds attributes taken from the
// context of each call, and [PhaseExtractor] uses that to tag every record with the
// boot phase it was emitted in:
//
//	log := logger.New(slog.LevelDebug, logger.PhaseExtractor())
//	ctx := logger.WithPhase(context.Background(), "extract")
//	log.DebugContext(ctx, "metadata built", slog.String("type", "AnimalController"))
//	// {"level":"DEBUG","msg":"metadata built","type":"AnimalController","phase":"extract"}
//
// [NewWithSentry] also forwards warnings and errors to Sentry, so a boot that aborts
// on a route conflict is reported. Without a DSN it falls back to stdout only.
//
// [NewNope] discards everything and is the default when no logger is configured.
package logger
