// internal/auth/scope.go
package auth

import (
	"fmt"
	"strings"
)

// Scope is a named permission grant of the Twitch v5 API.
type Scope string

const (
	ScopeUserRead                 Scope = "user_read"
	ScopeUserBlocksEdit           Scope = "user_blocks_edit"
	ScopeUserBlocksRead           Scope = "user_blocks_read"
	ScopeUserFollowsEdit          Scope = "user_follows_edit"
	ScopeUserSubscriptions        Scope = "user_subscriptions"
	ScopeChannelRead              Scope = "channel_read"
	ScopeChannelEditor            Scope = "channel_editor"
	ScopeChannelCommercial        Scope = "channel_commercial"
	ScopeChannelStream            Scope = "channel_stream"
	ScopeChannelSubscriptions     Scope = "channel_subscriptions"
	ScopeChannelCheckSubscription Scope = "channel_check_subscription"
	ScopeChannelFeedRead          Scope = "channel_feed_read"
	ScopeChannelFeedEdit          Scope = "channel_feed_edit"
	ScopeChatLogin                Scope = "chat_login"
	ScopeCollectionsEdit          Scope = "collections_edit"
	ScopeCommunitiesEdit          Scope = "communities_edit"
	ScopeCommunitiesModerate      Scope = "communities_moderate"
	ScopeViewingActivityRead      Scope = "viewing_activity_read"
	ScopeOpenID                   Scope = "openid"
)

var knownScopes = map[Scope]struct{}{
	ScopeUserRead:                 {},
	ScopeUserBlocksEdit:           {},
	ScopeUserBlocksRead:           {},
	ScopeUserFollowsEdit:          {},
	ScopeUserSubscriptions:        {},
	ScopeChannelRead:              {},
	ScopeChannelEditor:            {},
	ScopeChannelCommercial:        {},
	ScopeChannelStream:            {},
	ScopeChannelSubscriptions:     {},
	ScopeChannelCheckSubscription: {},
	ScopeChannelFeedRead:          {},
	ScopeChannelFeedEdit:          {},
	ScopeChatLogin:                {},
	ScopeCollectionsEdit:          {},
	ScopeCommunitiesEdit:          {},
	ScopeCommunitiesModerate:      {},
	ScopeViewingActivityRead:      {},
	ScopeOpenID:                   {},
}

func (s Scope) String() string {
	return string(s)
}

func ParseScope(name string) (Scope, error) {
	s := Scope(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownScopes[s]; !ok {
		return "", fmt.Errorf("unknown scope %q", name)
	}
	return s, nil
}

// ParseScopes keeps the known scopes and reports the unknown names.
func ParseScopes(names []string) ([]Scope, []string) {
	var scopes []Scope
	var unknown []string
	for _, name := range names {
		s, err := ParseScope(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		scopes = append(scopes, s)
	}
	return scopes, unknown
}
