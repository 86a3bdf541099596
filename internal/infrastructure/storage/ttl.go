package storage

import "time"

const defaultTTLDays = 90

// ExpiryEpoch returns the epoch-seconds value to store in an item's ttl
// attribute so DynamoDB reclaims it after days have passed. days <= 0 falls
// back to the source's default retention window.
func ExpiryEpoch(days int, now time.Time) int64 {
	if days <= 0 {
		days = defaultTTLDays
	}
	return now.Add(time.Duration(days) * 24 * time.Hour).Unix()
}
