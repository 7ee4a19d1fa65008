// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxAuthFormSize caps sign-in, sign-up and sign-out form submissions.
	MaxAuthFormSize = 16 << 10 // 16 KB

	// MaxUsernameLen and MaxPasswordLen bound credential fields before they
	// are forwarded to the authentication API.
	MaxUsernameLen = 64
	MaxPasswordLen = 128
)
