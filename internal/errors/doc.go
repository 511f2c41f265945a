// Package errors provides structured error handling for the combat-api project.
//
// It provides:
//   - Structured errors with codes, messages, and metadata
//   - HTTP status mapping for the handler layer
//   - Error context preservation through wrapping
//   - Validation error helpers
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("character not found")
//	err := errors.InvalidArgumentf("invalid skill: %s", skillID)
//
// Adding metadata:
//
//	err := errors.NotFound("character not found").
//	    WithMeta("character_id", charID)
//
// Wrapping errors:
//
//	if err := repo.Get(id); err != nil {
//	    return errors.Wrap(err, "failed to get character")
//	}
//
// # Error Checking
//
// Type checking:
//
//	if errors.IsNotFound(err) {
//	    // Handle not found case
//	}
//
// Domain reasons: closely related validation and conflict failures carry a
// machine-readable reason so callers can tell RingSlotsFull apart from a
// generic InvalidSlotForItem without string matching:
//
//	err := errors.InvalidArgument("all ring slots are occupied").
//	    WithReason(errors.ReasonRingSlotsFull)
//	if errors.HasReason(err, errors.ReasonRingSlotsFull) { ... }
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return domain-specific errors (NotFound, AlreadyExists)
//   - Include relevant IDs in metadata
//   - Wrap storage errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Check preconditions and return FailedPrecondition errors
//   - Wrap repository errors with business context
//
// Handler layer:
//   - Map codes to HTTP status via Code.HTTPStatus
//   - Surface user-facing messages, log internal errors
package errors
