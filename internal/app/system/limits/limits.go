// internal/app/system/limits/limits.go
package limits

// Request body size limits. They keep a single request from exhausting
// memory.
const (
	// MaxJSONBody caps any JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxRoster is the most members a single casa registration may carry.
	MaxRoster = 200
)
