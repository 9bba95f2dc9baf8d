// Package contracts provides the core message types and interfaces for the mediator.
//
// This package defines the base contracts for messages that flow through the system:
//   - Message: Base interface for all messages, single-use per dispatch
//   - Request: A message whose dispatch expects a response
//   - SingleResponse / MultiResponse: Embeddable qualifiers that declare a
//     request type's response type and cardinality
//   - Cardinality: Classifies a request as single- or multi-response
//
// It also carries the full error taxonomy the mediator surfaces, as sentinel
// errors plus structured error types (BadResponseError, TimeoutError).
package contracts
