package cache

import "fmt"

// RateLimitKey is the counter key for one client in one window.
func RateLimitKey(client string, window int64) string {
	return fmt.Sprintf("medconsensus:ratelimit:%s:%d", client, window)
}
