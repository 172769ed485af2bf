package security

import (
	"fmt"
	"time"
)

const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour
)

type granularity string

const (
	granMinute    granularity = "min"
	granHour      granularity = "hr"
	granCommand   granularity = "cmd"
	granIdentical granularity = "ident"
)

// rateLimitKey maps a user and granularity to the store key of the current
// fixed-size bucket. Minute and command buckets are 60s wide, hour buckets
// 3600s. The identical slot has no time component: one persistent key per
// user.
func rateLimitKey(userID string, g granularity, now time.Time) string {
	switch g {
	case granMinute:
		return fmt.Sprintf("%s:min:%d", userID, now.UnixMilli()/minuteWindow.Milliseconds())
	case granHour:
		return fmt.Sprintf("%s:hr:%d", userID, now.UnixMilli()/hourWindow.Milliseconds())
	case granCommand:
		return fmt.Sprintf("%s:cmd:%d", userID, now.UnixMilli()/minuteWindow.Milliseconds())
	default:
		return userID + ":ident"
	}
}

func blockKey(userID string) string {
	return "block:" + userID
}
