package repository

import "time"

// Resolution is a candle interval supported by the upstream history API.
type Resolution = string

const (
	Res1m  Resolution = "1m"
	Res5m  Resolution = "5m"
	Res15m Resolution = "15m"
	Res1h  Resolution = "1h"
	Res1d  Resolution = "1d"
)

// IsValidResolution returns true if r is a supported candle resolution.
func IsValidResolution(r Resolution) bool {
	switch r {
	case Res1m, Res5m, Res15m, Res1h, Res1d:
		return true
	default:
		return false
	}
}

// CacheTTL returns how long a fetched dataset of the given resolution stays
// valid. Coarser resolutions change less often and may be cached longer.
func CacheTTL(r Resolution) time.Duration {
	switch r {
	case Res1m:
		return time.Minute
	case Res5m:
		return 5 * time.Minute
	case Res15m:
		return 15 * time.Minute
	case Res1h:
		return time.Hour
	case Res1d:
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}
