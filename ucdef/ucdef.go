// Package ucdef defines the use case contracts shared by the transports.
package ucdef

import "context"

// TypeUserAction marks use cases triggered by an API request.
const TypeUserAction = "user_action"

// UserAction represents a synchronous operation triggered by a client request.
// It returns an immediate response, and errors are returned to the caller.
//
// Type parameters:
//   - I: Input data type (request payload)
//   - O: Output data type (response, result of the operation)
type UserAction[I, O any] interface {
	// OperationID returns a unique identifier for the use case.
	OperationID() string

	// Execute executes the use case.
	Execute(ctx context.Context, in I) (O, error)
}
