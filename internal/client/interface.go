// internal/client/interface.go
package client

import (
	"context"
)

// Requester executes typed Twitch API calls.
type Requester interface {
	Execute(ctx context.Context, req Request, out any) error
}
