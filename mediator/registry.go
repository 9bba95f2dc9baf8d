package mediator

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/glimte/mediator-go/contracts"
)

// subscriptionKey identifies one handler set: a routing channel plus the
// concrete message type being routed. The empty channel is the degenerate
// unscoped configuration.
type subscriptionKey struct {
	channel string
	msgType reflect.Type
}

func (k subscriptionKey) String() string {
	if k.channel == "" {
		return k.msgType.Name()
	}
	return fmt.Sprintf("%s/%s", k.channel, k.msgType.Name())
}

// keyFor resolves the subscription key for a message or prototype. The type
// must be a named struct (or pointer to one) implementing contracts.Message;
// anything else is not a recognized message type.
func keyFor(channel string, msg contracts.Message) (subscriptionKey, error) {
	if msg == nil {
		return subscriptionKey{}, fmt.Errorf("message cannot be nil: %w", contracts.ErrInvalidMessageType)
	}

	t := reflect.TypeOf(msg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return subscriptionKey{}, fmt.Errorf("message type must be a struct, got %v: %w", t.Kind(), contracts.ErrInvalidMessageType)
	}
	if t.Name() == "" {
		return subscriptionKey{}, fmt.Errorf("message type must be named: %w", contracts.ErrInvalidMessageType)
	}

	return subscriptionKey{channel: channel, msgType: t}, nil
}

// subscriptionRegistry maps subscription keys to handler sets. It is the only
// shared mutable state in the mediator; dispatch always iterates a snapshot,
// so handlers may subscribe and unsubscribe mid-dispatch.
type subscriptionRegistry struct {
	mu       sync.RWMutex
	handlers map[subscriptionKey][]Handler
}

func newSubscriptionRegistry() *subscriptionRegistry {
	return &subscriptionRegistry{
		handlers: make(map[subscriptionKey][]Handler),
	}
}

// add inserts a handler for a key. Single-response request keys hold at most
// one handler; a second insertion fails.
func (r *subscriptionRegistry) add(key subscriptionKey, handler Handler, single bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if single && len(r.handlers[key]) > 0 {
		return fmt.Errorf("subscription key %s: %w", key, contracts.ErrDuplicateSingleSubscription)
	}

	r.handlers[key] = append(r.handlers[key], handler)
	return nil
}

// remove deletes a handler from a key's set, pruning the key once the set
// empties.
func (r *subscriptionRegistry) remove(key subscriptionKey, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := r.handlers[key]
	for i, registered := range handlers {
		if sameHandler(registered, handler) {
			r.handlers[key] = append(handlers[:i:i], handlers[i+1:]...)
			if len(r.handlers[key]) == 0 {
				delete(r.handlers, key)
			}
			return nil
		}
	}

	return fmt.Errorf("subscription key %s: %w", key, contracts.ErrHandlerNotFound)
}

// snapshot returns a copy of the handler set safe to iterate while concurrent
// subscribe/unsubscribe calls mutate the registry.
func (r *subscriptionRegistry) snapshot(key subscriptionKey) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := r.handlers[key]
	if len(handlers) == 0 {
		return nil
	}

	out := make([]Handler, len(handlers))
	copy(out, handlers)
	return out
}

// hasSubscriptions reports whether any handler is registered for the key
func (r *subscriptionRegistry) hasSubscriptions(key subscriptionKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers[key]) > 0
}
