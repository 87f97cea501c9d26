// internal/app/system/limits/limits.go
package limits

// Bounds on user-supplied input. These keep oversized requests from
// exhausting memory and cap what the chat relay will persist.
const (
	// MaxChatMessageLen is the maximum chat message length in characters.
	MaxChatMessageLen = 1000

	// ChatHistoryLimit is the number of recent messages replayed to a
	// freshly authorized chat connection.
	ChatHistoryLimit = 20

	// MaxJSONBodySize is the maximum size for API request bodies.
	MaxJSONBodySize = 64 << 10 // 64 KB

	// GroupListLimit caps the open-groups listing.
	GroupListLimit = 100
)
