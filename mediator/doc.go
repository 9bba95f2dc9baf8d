// Package mediator provides in-process typed message mediation.
//
// Components publish messages or issue requests without holding references to
// each other; the mediator routes each dispatch to the handlers registered
// for its concrete type, optionally scoped by a channel string:
//   - Publish: fire-and-forget or wait-for-completion delivery to all handlers
//   - Request: single-response requests answered by exactly one handler
//   - RequestStream: multi-response requests answered by zero or more
//     handlers, streamed lazily in completion order
//   - Subscribe / Unsubscribe / HasSubscriptions: registry management
//
// Key features:
//   - Registry keyed by (channel, message type) with copy-on-read snapshots,
//     so handlers may subscribe or unsubscribe mid-dispatch
//   - At most one handler per single-response request key, enforced at
//     subscribe time
//   - Aggregate wall-clock timeouts on every waiting dispatch; handlers
//     receive the bounded context but are never forcibly cancelled
//   - Response type validation against the request's declared response type,
//     switchable via WithResponseValidation
//   - Middleware chain around every handler invocation
//   - Single-use messages: a second dispatch of the same instance fails
//
// Example usage:
//
//	type GetVolumeRequest struct {
//		contracts.BaseMessage
//		contracts.SingleResponse[float64]
//	}
//
//	med := mediator.New()
//	err := med.SubscribeFunc("audio", &GetVolumeRequest{},
//		func(ctx context.Context, msg contracts.Message) (any, error) {
//			return 0.5, nil
//		})
//
//	volume, err := mediator.Send[float64](ctx, med, "audio",
//		&GetVolumeRequest{BaseMessage: contracts.NewBaseMessage("GetVolumeRequest")},
//		mediator.WithTimeout(time.Second))
//
// Each Mediator instance owns an isolated registry; create one per scope that
// needs independent routing.
package mediator
