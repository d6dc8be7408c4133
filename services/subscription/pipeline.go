package subscription

import (
	"context"
	"log/slog"
	"time"

	"waitlist-api/pkg/clients/llm"
)

// Stage names surfaced in error responses, one per external dependency.
const (
	stageSheet = "Sheet"
	stageLLM   = "LLM"
	stageEmail = "Email send"
)

// step is one fallible stage of the subscribe pipeline. A bestEffort step
// logs its failure and lets the pipeline finish successfully.
type step struct {
	stage      string
	bestEffort bool
	run        func(ctx context.Context) error
}

// stepError tags a failure with the stage it happened in so the handler can
// report which dependency broke.
type stepError struct {
	Stage string
	Err   error
}

// runPipeline executes the subscribe sequence in fixed order. The row is
// appended before any send attempt and never rolled back: a later failure
// leaves an orphaned row with an empty sent mark, which is accepted.
func (s *Service) runPipeline(ctx context.Context, email, rid string) *stepError {
	var (
		rowIndex int
		content  *llm.Content
	)

	steps := []step{
		{stage: stageSheet, run: func(ctx context.Context) error {
			var err error
			rowIndex, err = s.store.Append(ctx, email)
			return err
		}},
		{stage: stageLLM, run: func(ctx context.Context) error {
			var err error
			content, err = s.generator.Generate(ctx, email)
			return err
		}},
		{stage: stageEmail, run: func(ctx context.Context) error {
			return s.mailer.Send(ctx, email, *content)
		}},
		// The email is already delivered by this point, so a failure to mark
		// the row must not turn the response into an error.
		{stage: stageSheet, bestEffort: true, run: func(ctx context.Context) error {
			return s.store.MarkSent(ctx, rowIndex)
		}},
	}

	for _, st := range steps {
		start := time.Now()
		err := st.run(ctx)
		slog.Debug("pipeline step finished",
			"requestId", rid,
			"stage", st.stage,
			"durationMs", time.Since(start).Milliseconds(),
		)
		if err == nil {
			continue
		}
		if st.bestEffort {
			slog.Warn("could not mark waitlist row as sent",
				"requestId", rid,
				"row", rowIndex,
				"error", err,
			)
			continue
		}
		return &stepError{Stage: st.stage, Err: err}
	}
	return nil
}
