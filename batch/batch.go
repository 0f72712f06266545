// Package batch drives the HTML comparison renderer over a batch
// description file, fetching missing sources from and publishing rendered
// artifacts to a content store.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jgwest/htmldiff-cli/logging"
	"github.com/jgwest/htmldiff-cli/model"
	"github.com/jgwest/htmldiff-cli/util"
)

// Orchestrator runs every row of a batch description file strictly in file
// order. Precondition failures abort before the first row; row failures are
// folded into the result and never stop the batch.
type Orchestrator struct {
	RC       model.RunContext
	Prompt   model.PasswordPrompt
	Username string

	// Substitutions are expanded into row locator fields with $var syntax.
	Substitutions []model.Substitution

	// DryRun parses and validates rows without touching the store or the
	// renderer.
	DryRun bool

	log zerolog.Logger
}

func NewOrchestrator(rc model.RunContext, prompt model.PasswordPrompt, username string) *Orchestrator {
	return &Orchestrator{
		RC:       rc,
		Prompt:   prompt,
		Username: username,
		log:      logging.Component("batch"),
	}
}

// RunBatch validates the batch file and the credential, then processes every
// row sequentially. A non-nil error means a precondition failed and no row
// was processed.
func (o *Orchestrator) RunBatch(ctx context.Context, batchFilePath string) (model.BatchResult, error) {

	result := model.BatchResult{}

	// Preconditions: all checked before any row is touched.
	if !util.PathExists(batchFilePath) {
		return result, fmt.Errorf("could not locate batch file '%s'", batchFilePath)
	}

	isText, err := util.LooksLikeText(batchFilePath)
	if err != nil {
		return result, fmt.Errorf("unable to read batch file '%s': %w", batchFilePath, err)
	}
	if !isText {
		return result, fmt.Errorf("batch file '%s' is not a text file", batchFilePath)
	}

	content, err := os.ReadFile(batchFilePath)
	if err != nil {
		return result, fmt.Errorf("unable to read batch file '%s': %w", batchFilePath, err)
	}

	if !bytes.ContainsRune(content, ',') {
		return result, fmt.Errorf("batch file '%s' contains no comma-separated rows", batchFilePath)
	}

	rc := o.RC

	// A dry run touches neither the store nor the renderer, so no
	// credential is needed.
	if !o.DryRun {
		if o.Username == "" {
			return result, fmt.Errorf("a username is required for content store access")
		}

		// The credential is requested exactly once and reused for every row.
		password, err := o.Prompt.ReadPassword(fmt.Sprintf("Content store password for '%s': ", o.Username))
		if err != nil {
			return result, fmt.Errorf("unable to read password: %w", err)
		}
		if password == "" {
			return result, fmt.Errorf("a non-empty password is required")
		}

		rc.Credential = model.Credential{Username: o.Username, Password: password}
	}

	runner := NewRunner(rc)

	for i, line := range strings.Split(string(content), "\n") {

		lineNumber := i + 1

		row, kind := ParseRow(line)

		if kind == KindSkip {
			continue
		}

		result.TotalRows++

		if kind == KindMalformed {
			result.FailedRows++
			o.log.Warn().Int("row", lineNumber).
				Msg("malformed row skipped: expected six non-empty comma-separated fields")
			continue
		}

		row.LineNumber = lineNumber

		expanded, err := o.expandRow(row)
		if err != nil {
			result.FailedRows++
			o.log.Error().Int("row", lineNumber).Err(err).Msg("row skipped")
			continue
		}

		if o.DryRun {
			result.SucceededRows++
			o.log.Info().Int("row", lineNumber).
				Str("sourceA", expanded.SourceLocator1).
				Str("sourceB", expanded.SourceLocator2).
				Str("output", expanded.OutputLocator).
				Msg("row validated (dry run)")
			continue
		}

		outcome := runner.Run(ctx, expanded)

		for _, rowErr := range outcome.Errors {
			o.log.Error().Int("row", lineNumber).Msg(rowErr)
		}

		if outcome.Rendered {
			result.SucceededRows++
		} else {
			result.FailedRows++
		}

		if outcome.Published {
			o.log.Info().Int("row", lineNumber).Str("id", expanded.PublishID).Msg("published comparison")
		}
	}

	o.log.Info().
		Int("total", result.TotalRows).
		Int("succeeded", result.SucceededRows).
		Int("failed", result.FailedRows).
		Msg("batch complete")

	return result, nil
}

// expandRow applies $var substitution to the three locator fields. Fetch and
// publish identifiers pass through untouched.
func (o *Orchestrator) expandRow(row model.ComparisonRow) (model.ComparisonRow, error) {

	var err error

	if row.SourceLocator1, err = util.Expand(row.SourceLocator1, o.Substitutions); err != nil {
		return row, err
	}
	if row.SourceLocator2, err = util.Expand(row.SourceLocator2, o.Substitutions); err != nil {
		return row, err
	}
	if row.OutputLocator, err = util.Expand(row.OutputLocator, o.Substitutions); err != nil {
		return row, err
	}

	return row, nil
}
