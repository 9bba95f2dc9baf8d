package contracts

import (
	"reflect"
	"time"
)

// Message is the base interface for all mediator messages.
// A message instance is single-use: it may be accepted into exactly one
// dispatch (publish or request) over its lifetime.
type Message interface {
	GetID() string
	GetTimestamp() time.Time
	GetType() string

	// MarkPublished consumes the message's single dispatch slot. It returns
	// true on the first call and false on every call after that, so the
	// mediator can atomically detect a second dispatch attempt.
	MarkPublished() bool

	// IsPublished reports whether the message has been accepted into a
	// dispatch. The flag is never reset.
	IsPublished() bool
}

// Cardinality classifies how many responses a request expects
type Cardinality int

const (
	// CardinalityUnspecified marks a request type that never declared its
	// cardinality. Such a type is unqualified and cannot be dispatched.
	CardinalityUnspecified Cardinality = iota

	// CardinalitySingle requires exactly one registered handler and
	// produces exactly one response.
	CardinalitySingle

	// CardinalityMulti allows zero or more registered handlers and
	// produces a stream of responses.
	CardinalityMulti
)

// String returns a human-readable name for the cardinality
func (c Cardinality) String() string {
	switch c {
	case CardinalitySingle:
		return "single"
	case CardinalityMulti:
		return "multi"
	default:
		return "unspecified"
	}
}

// Request is a message whose dispatch expects a response. Both properties
// are static: they belong to the request type, not the instance, and must be
// resolved before the type is first dispatched. Concrete request types
// declare them by embedding SingleResponse[T] or MultiResponse[T].
type Request interface {
	Message

	// Cardinality returns the declared response cardinality.
	Cardinality() Cardinality

	// ResponseType returns the type a successful response must be
	// assignable to.
	ResponseType() reflect.Type
}

// Qualified reports whether a request type has resolved both of its static
// properties. Unqualified requests are rejected at dispatch time.
func Qualified(req Request) bool {
	if req == nil {
		return false
	}
	c := req.Cardinality()
	return (c == CardinalitySingle || c == CardinalityMulti) && req.ResponseType() != nil
}
