package model

import (
	"context"
	"time"
)

// ContentStore fetches and publishes named artifacts in a remote content
// service, for example Confluence page attachments. Identifiers are opaque
// to callers; only the implementation knows their shape.
type ContentStore interface {
	Fetch(ctx context.Context, id string, destPath string, cred Credential) error
	Publish(ctx context.Context, id string, sourcePath string, cred Credential) error
}

// DiffRenderer produces a human-readable rendering of the differences
// between two text files at outputPath. A nil error does not guarantee an
// artifact exists; callers must check the output path themselves.
type DiffRenderer interface {
	Render(ctx context.Context, fileA string, fileB string, outputPath string) error
}

// PasswordPrompt obtains a secret from the operator.
type PasswordPrompt interface {
	ReadPassword(prompt string) (string, error)
}

// ConfirmPrompt asks the operator a yes/no question.
type ConfirmPrompt interface {
	Confirm(question string) (bool, error)
}

// Credential is held in memory for the duration of a run and is never
// persisted or logged.
type Credential struct {
	Username string
	Password string
}

// RunContext carries the resolved collaborators and shared settings for one
// run. It replaces ambient state: every component receives it explicitly.
type RunContext struct {
	Store      ContentStore
	Renderer   DiffRenderer
	Credential Credential

	// Timeout bounds each individual external call. Zero means no timeout.
	Timeout time.Duration

	Debug bool
}

// CallContext derives a context for a single external call.
func (rc RunContext) CallContext(parent context.Context) (context.Context, context.CancelFunc) {
	if rc.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, rc.Timeout)
}
