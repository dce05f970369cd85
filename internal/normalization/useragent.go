package normalization

import "strings"

// DeviceType buckets a user agent string for search-history analytics.
func DeviceType(userAgent string) string {
	ua := ParseInputString(userAgent)
	if ua == "" {
		return "unknown"
	}
	switch {
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "tablet"
	default:
		return "desktop"
	}
}
