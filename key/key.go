// Package key contains the definition of the Key Provider, as well as various implementations of
// the concept.
package key

// Keys contains the master key material used by the standalone identity
// provider. All keys must be 32 bytes. Note that per-book content keys are
// not master keys; they live in the vault.
type Keys struct {
	// User Encryption Key used for sealing user records.
	UEK []byte `yaml:"uek"`

	// Token Encryption Key used for sealing bearer tokens.
	TEK []byte `yaml:"tek"`
}

// Provider is the interface a Key Provider must implement to serve keys.
type Provider interface {
	// GetKeys returns a set of keys.
	GetKeys() (Keys, error)
}
