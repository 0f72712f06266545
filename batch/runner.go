package batch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jgwest/htmldiff-cli/logging"
	"github.com/jgwest/htmldiff-cli/model"
	"github.com/jgwest/htmldiff-cli/render"
	"github.com/jgwest/htmldiff-cli/util"
)

// Runner executes one comparison row against the run's collaborators. Every
// failure is recorded in the returned outcome; Run never aborts the batch.
type Runner struct {
	rc  model.RunContext
	log zerolog.Logger
}

func NewRunner(rc model.RunContext) *Runner {
	return &Runner{
		rc:  rc,
		log: logging.Component("runner"),
	}
}

func (r *Runner) Run(ctx context.Context, row model.ComparisonRow) model.RowOutcome {

	outcome := model.RowOutcome{}

	// Ensure both sources are present locally, fetching any that are
	// missing. A failed fetch is recorded but does not stop the remaining
	// steps: the both-sources-present gate below decides whether rendering
	// happens.
	r.ensureSource(ctx, row.SourceLocator1, row.FetchID1, 1, &outcome)
	r.ensureSource(ctx, row.SourceLocator2, row.FetchID2, 2, &outcome)

	if !util.PathExists(row.SourceLocator1) || !util.PathExists(row.SourceLocator2) {
		outcome.Errors = append(outcome.Errors, "rendering skipped: one or both source files are missing")
		return outcome
	}

	outputPath := render.NormalizeOutputPath(row.OutputLocator)

	callCtx, cancel := r.rc.CallContext(ctx)
	renderErr := r.rc.Renderer.Render(callCtx, row.SourceLocator1, row.SourceLocator2, outputPath)
	cancel()

	if renderErr != nil {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("render failed: %v", renderErr))
	}

	// The renderer may exit cleanly without producing anything; trust the
	// filesystem, not the exit status.
	if !util.PathExists(outputPath) {
		if renderErr == nil {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("renderer reported success but produced no artifact at '%s'", outputPath))
		}
		return outcome
	}

	outcome.Rendered = true

	callCtx, cancel = r.rc.CallContext(ctx)
	publishErr := r.rc.Store.Publish(callCtx, row.PublishID, outputPath, r.rc.Credential)
	cancel()

	if publishErr != nil {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("publish of '%s' failed: %v", row.PublishID, publishErr))
	} else {
		outcome.Published = true
	}

	return outcome
}

func (r *Runner) ensureSource(ctx context.Context, path string, fetchID string, position int, outcome *model.RowOutcome) {

	if util.PathExists(path) {
		return
	}

	callCtx, cancel := r.rc.CallContext(ctx)
	err := r.rc.Store.Fetch(callCtx, fetchID, path, r.rc.Credential)
	cancel()

	if err != nil {
		r.log.Warn().Str("id", fetchID).Str("path", path).Err(err).Msg("fetch failed")
	}

	if !util.PathExists(path) {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("failed to fetch source %d ('%s')", position, path))
	}
}
