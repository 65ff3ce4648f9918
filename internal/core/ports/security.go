package ports

// SecretBox seals short secrets (passwords) for storage in configuration.
type SecretBox interface {
	// Seal encrypts plaintext and returns it hex-encoded.
	Seal(plaintext string) (string, error)

	// Open reverses Seal.
	Open(sealed string) (string, error)
}
