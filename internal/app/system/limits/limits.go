// internal/app/system/limits/limits.go
package limits

// Request body size limits for the wizard JSON API.
const (
	// MaxControlBody bounds small control requests (open, toggle).
	MaxControlBody = 16 << 10 // 16 KB

	// MaxDraftBody bounds a draft update; instructions are the large field.
	MaxDraftBody = 128 << 10 // 128 KB
)
