package security

import "fmt"

// Reason identifies why an update was rejected. Rejections are expected,
// frequent outcomes, not errors.
type Reason string

const (
	ReasonTemporarilyBlocked Reason = "temporarily_blocked"
	ReasonRateLimitMinute    Reason = "rate_limit_minute"
	ReasonRateLimitHour      Reason = "rate_limit_hour"
	ReasonIdenticalSpam      Reason = "identical_spam"
	ReasonAutoBlocked        Reason = "auto_blocked"
	ReasonCommandSpam        Reason = "command_spam"
	ReasonMessageTooLong     Reason = "message_too_long"
	ReasonSuspiciousContent  Reason = "suspicious_content"
)

// ResponseFor returns the user-facing text for a rejection. blockSeconds
// is only shown for reasons that carry a block.
func ResponseFor(reason Reason, blockSeconds int) string {
	switch reason {
	case ReasonTemporarilyBlocked:
		return fmt.Sprintf("🛡️ You are temporarily blocked. Please wait %d seconds before trying again.", blockSeconds)
	case ReasonRateLimitMinute:
		return "⏱️ You are sending messages too quickly. Please slow down and try again in a minute."
	case ReasonRateLimitHour:
		return "⏰ You have reached your hourly message limit. Please try again later."
	case ReasonIdenticalSpam:
		return fmt.Sprintf("🚫 Please don't repeat the same message. You're blocked for %d seconds.", blockSeconds)
	case ReasonAutoBlocked:
		return fmt.Sprintf("🚨 Suspicious activity detected. You're blocked for %d seconds. Contact admin if this is a mistake.", blockSeconds)
	case ReasonCommandSpam:
		return "⚡ You are using commands too frequently. Please wait a moment."
	case ReasonMessageTooLong:
		return "📏 Your message is too long. Please break it into smaller messages."
	case ReasonSuspiciousContent:
		return "🚨 Your message contains suspicious content and was blocked."
	default:
		return "🛡️ Request blocked by security system. Please try again later."
	}
}
