package crypto

// SecretBytes owns a buffer of key material and wipes it when the scope ends.
// The wrapped slice is the caller's memory, so wiping is visible to the caller.
type SecretBytes struct {
	b []byte
}

// NewSecretBytes takes ownership of b
func NewSecretBytes(b []byte) *SecretBytes {
	return &SecretBytes{b: b}
}

// Bytes exposes the secret for the duration of the scope
func (s *SecretBytes) Bytes() []byte {
	return s.b
}

// Len returns the length of the secret
func (s *SecretBytes) Len() int {
	return len(s.b)
}

// Zero overwrites every byte of the secret. It is safe to call more than once.
func (s *SecretBytes) Zero() {
	clear(s.b)
}

// WithSecret runs fn with the secret and zeroes it afterwards, including when fn
// returns an error or panics.
func WithSecret[T any](b []byte, fn func(*SecretBytes) (T, error)) (T, error) {
	s := NewSecretBytes(b)
	defer s.Zero()
	return fn(s)
}
