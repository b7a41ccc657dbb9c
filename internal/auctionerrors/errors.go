package auctionerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure.
type Kind string

const (
	// Backend unreachable or the reachability probe failed
	ServiceUnavailable Kind = "service_unavailable"
	// Referenced collection or record absent, commonly a misconfiguration
	NotFound Kind = "not_found"
	// Credentials valid but not sufficient for the attempted operation
	Unauthorized Kind = "unauthorized"
	// Missing or invalid credentials
	Unauthenticated Kind = "unauthenticated"
	// Request violates a server-enforced constraint
	ValidationFailed Kind = "validation_failed"
	// Bid does not exceed the current price
	BidTooLow Kind = "bid_too_low"
	// Owners cannot bid on their own auctions
	SelfBidForbidden Kind = "self_bid_forbidden"
	// Auction past its end time
	AuctionClosed Kind = "auction_closed"
	// Unclassified failure, always carries the raw underlying message
	Unknown Kind = "unknown"
)

// Failure is the structured result every workflow returns instead of
// propagating a raw error to the view layer. Message is user-facing;
// Err keeps the underlying cause for diagnostics.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// New creates a Failure without an underlying cause.
func New(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// Newf creates a Failure with a formatted user-facing message.
func Newf(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a Failure keeping err as the underlying cause.
func Wrap(kind Kind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// AsFailure extracts a Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// KindOf reports the taxonomy kind of err, Unknown when unclassified.
func KindOf(err error) Kind {
	if f, ok := AsFailure(err); ok {
		return f.Kind
	}
	return Unknown
}

// Ensure returns err as a Failure, wrapping unclassified errors as
// Unknown with the raw message preserved.
func Ensure(err error) *Failure {
	if err == nil {
		return nil
	}
	if f, ok := AsFailure(err); ok {
		return f
	}
	return &Failure{Kind: Unknown, Message: err.Error(), Err: err}
}
