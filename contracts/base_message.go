package contracts

import (
	"reflect"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// BaseMessage provides common fields for all message types
type BaseMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`

	published uint32
}

// NewBaseMessage creates a new base message with generated ID and current timestamp
func NewBaseMessage(messageType string) BaseMessage {
	return BaseMessage{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Type:      messageType,
	}
}

// GetID returns the message ID
func (m *BaseMessage) GetID() string {
	return m.ID
}

// GetTimestamp returns the message timestamp
func (m *BaseMessage) GetTimestamp() time.Time {
	return m.Timestamp
}

// GetType returns the message type
func (m *BaseMessage) GetType() string {
	return m.Type
}

// MarkPublished consumes the message's single dispatch slot. Only the first
// caller wins; every later call reports false.
func (m *BaseMessage) MarkPublished() bool {
	return atomic.CompareAndSwapUint32(&m.published, 0, 1)
}

// IsPublished reports whether the message was already accepted into a dispatch
func (m *BaseMessage) IsPublished() bool {
	return atomic.LoadUint32(&m.published) == 1
}

// SingleResponse qualifies a request type as expecting exactly one response
// of type T. Embed it in a concrete request type:
//
//	type GetVolumeRequest struct {
//		contracts.BaseMessage
//		contracts.SingleResponse[float64]
//	}
type SingleResponse[T any] struct{}

// Cardinality returns CardinalitySingle
func (SingleResponse[T]) Cardinality() Cardinality {
	return CardinalitySingle
}

// ResponseType returns the declared response type T
func (SingleResponse[T]) ResponseType() reflect.Type {
	return reflect.TypeFor[T]()
}

// MultiResponse qualifies a request type as expecting zero or more responses
// of type T, one per answering handler.
type MultiResponse[T any] struct{}

// Cardinality returns CardinalityMulti
func (MultiResponse[T]) Cardinality() Cardinality {
	return CardinalityMulti
}

// ResponseType returns the declared response type T
func (MultiResponse[T]) ResponseType() reflect.Type {
	return reflect.TypeFor[T]()
}
