package pipeline

import (
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// Options configure NewStandard.
type Options struct {
	BaseURL  string
	Tokens   TokenSource
	Tracker  *Tracker
	SkipURLs []string
	Errors   ErrorHandler
	Log      logging.Logger
}

// NewStandard builds the production pipeline: base URL, bearer token,
// loading tracking, then error classification.
func NewStandard(client *http.Client, opts Options) *Pipeline {
	if opts.Tokens == nil {
		opts.Tokens = noTokens{}
	}
	if opts.Tracker == nil {
		opts.Tracker = NewTracker(opts.Errors.Metrics)
	}
	if opts.Errors.Log == nil {
		opts.Errors.Log = opts.Log
	}
	return New(client, opts.Log,
		BaseURL(opts.BaseURL),
		Bearer(opts.Tokens),
		Loading(opts.Tracker, opts.SkipURLs...),
		Classify(opts.Errors),
	)
}

type noTokens struct{}

func (noTokens) Token() string { return "" }
