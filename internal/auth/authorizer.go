package auth

import (
	"context"
)

// ActorInfo contains information about an authenticated actor
type ActorInfo struct {
	ActorID     string   `json:"actor_id"`    // Same as key_id
	TeamID      string   `json:"team_id"`     // Sales team the actor belongs to
	KeyType     string   `json:"key_type"`    // 'standard', 'admin'
	KeyName     string   `json:"key_name"`    // Human-readable name
	Permissions []string `json:"permissions"` // Team-level permissions
}

// Authorizer validates API keys and checks permissions in one call
type Authorizer interface {
	// Authorize validates API key and checks if actor can perform operation
	// Returns ActorInfo if authorized, error if authentication or authorization fails
	Authorize(ctx context.Context, apiKey, operation, resource string) (*ActorInfo, error)
}
