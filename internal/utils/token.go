package utils

// NewShareToken returns a random unguessable capability token for a portal
// URL. 24 random bytes hex-encoded (48 characters); the projects table
// enforces uniqueness.
func NewShareToken() (string, error) {
	return randomHex(24)
}
