// Package classifier assigns exactly one outcome class to each fetched
// response.
package classifier

import (
	"bytes"
	stderrors "errors"
	"fmt"

	"urlharvest/pkg/errors"
	"urlharvest/pkg/fetcher"
)

// Class is the classification of a single fetched response.
type Class int

const (
	// ClassSuccess means the body carries a well-formed payload block.
	ClassSuccess Class = iota
	// ClassNotFound means the resource is absent: a not-found status, or
	// the site's not-found marker text in the body.
	ClassNotFound
	// ClassMalformed means a readable body without payload or marker.
	ClassMalformed
	// ClassTransportError means the fetch itself failed.
	ClassTransportError
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassNotFound:
		return "not-found"
	case ClassMalformed:
		return "malformed"
	case ClassTransportError:
		return "transport-error"
	default:
		return "unknown"
	}
}

// Result is a classification plus a human-readable reason for failures.
type Result struct {
	Class  Class
	Reason string
}

// PayloadDetector reports whether a body contains a well-formed payload
// block. Implemented by extractor.Scanner.
type PayloadDetector interface {
	HasPayload(body []byte) bool
}

// Classifier inspects fetched bodies and statuses.
type Classifier struct {
	notFoundMarker []byte
	detector       PayloadDetector
}

// New creates a classifier. marker is the site's canonical not-found text;
// an empty marker disables the textual check.
func New(marker string, detector PayloadDetector) *Classifier {
	return &Classifier{
		notFoundMarker: []byte(marker),
		detector:       detector,
	}
}

// Classify applies the rule priority, first match wins:
//  1. transport failure: not-found status maps to ClassNotFound, any other
//     failure to ClassTransportError
//  2. not-found marker text in the body maps to ClassNotFound, even on an
//     HTTP 200 (some backends return 200 with an error page)
//  3. a well-formed payload block maps to ClassSuccess
//  4. everything else is ClassMalformed
func (c *Classifier) Classify(resp *fetcher.Response, fetchErr error) Result {
	if fetchErr != nil {
		var typed *errors.Error
		if stderrors.As(fetchErr, &typed) && typed.Type == errors.ErrorTypeNotFound {
			return Result{Class: ClassNotFound}
		}
		return Result{Class: ClassTransportError, Reason: fetchErr.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if errors.IsNotFoundStatusCode(resp.StatusCode) {
			return Result{Class: ClassNotFound}
		}
		return Result{
			Class:  ClassTransportError,
			Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	if len(c.notFoundMarker) > 0 && bytes.Contains(resp.Body, c.notFoundMarker) {
		return Result{Class: ClassNotFound}
	}

	if c.detector != nil && c.detector.HasPayload(resp.Body) {
		return Result{Class: ClassSuccess}
	}

	return Result{Class: ClassMalformed, Reason: "no payload block in body"}
}
