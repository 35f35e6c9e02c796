package models

import (
	"fmt"
	"strings"
)

// Kind identifies the outcome of processing a single URL.
type Kind string

const (
	// KindSaved means the payload was extracted and persisted as an artifact.
	KindSaved Kind = "saved"
	// KindFailed means a transport, extraction, or artifact-write failure.
	KindFailed Kind = "failed"
	// KindNotFound means the resource is absent (status or marker text).
	KindNotFound Kind = "404"
	// KindUnchanged means a rewrite pass kept the URL as-is.
	KindUnchanged Kind = "unchanged"
	// KindRewritten means a rewrite pass substituted a new URL. The
	// checkpoint token for this kind is the rewritten URL itself.
	KindRewritten Kind = "rewritten"
)

// Outcome is the single per-URL result of a pass. Exactly one outcome
// exists per URL per pass.
type Outcome struct {
	Kind Kind
	// ArtifactPath is set for KindSaved.
	ArtifactPath string
	// Reason is set for KindFailed.
	Reason string
	// NewURL is set for KindRewritten.
	NewURL string
}

// Saved returns a saved outcome pointing at the persisted artifact.
func Saved(artifactPath string) Outcome {
	return Outcome{Kind: KindSaved, ArtifactPath: artifactPath}
}

// Failed returns a failed outcome with a reason.
func Failed(reason string) Outcome {
	return Outcome{Kind: KindFailed, Reason: reason}
}

// NotFound returns a not-found outcome.
func NotFound() Outcome {
	return Outcome{Kind: KindNotFound}
}

// Unchanged returns an unchanged outcome for a rewrite pass.
func Unchanged() Outcome {
	return Outcome{Kind: KindUnchanged}
}

// Rewritten returns a rewritten outcome carrying the substituted URL.
func Rewritten(newURL string) Outcome {
	return Outcome{Kind: KindRewritten, NewURL: newURL}
}

// Token renders the outcome as its checkpoint-line token:
// saved, failed, 404, unchanged, or the rewritten URL.
func (o Outcome) Token() string {
	if o.Kind == KindRewritten {
		return o.NewURL
	}
	return string(o.Kind)
}

// ParseToken decodes a checkpoint-line token back into an outcome.
// Any token that is not a known keyword is a rewritten URL.
func ParseToken(token string) (Outcome, error) {
	switch token {
	case string(KindSaved):
		return Outcome{Kind: KindSaved}, nil
	case string(KindFailed):
		return Outcome{Kind: KindFailed}, nil
	case string(KindNotFound):
		return Outcome{Kind: KindNotFound}, nil
	case string(KindUnchanged):
		return Outcome{Kind: KindUnchanged}, nil
	case "":
		return Outcome{}, fmt.Errorf("empty outcome token")
	default:
		if !strings.Contains(token, "://") {
			return Outcome{}, fmt.Errorf("unrecognized outcome token: %q", token)
		}
		return Outcome{Kind: KindRewritten, NewURL: token}, nil
	}
}
