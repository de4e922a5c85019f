package cache

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EventsChannel is the pub/sub channel job lifecycle events are published on.
const EventsChannel = "careerai:events"

// RunStatusKey scopes a run's cached status to its owner.
func RunStatusKey(userID, runID uuid.UUID) string {
	return fmt.Sprintf("analysis:run:%s:%s", userID, runID)
}

func RateLimitKey(tokenPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", tokenPrefix)
}

func BrandKey(domain string) string {
	return fmt.Sprintf("brand:%s", strings.ToLower(domain))
}
