package crypto

import "fmt"

const keyLen = 32

const redacted = "crypto.Key{REDACTED}"

// Key is a derived 256-bit symmetric key. Its bytes are unexported and every
// formatting or encoding path refuses to reveal them.
type Key struct {
	b []byte
}

func (k Key) String() string   { return redacted }
func (k Key) GoString() string { return redacted }

// Format covers every fmt verb, including %x and %v on the struct.
func (k Key) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redacted))
}

func (k Key) MarshalJSON() ([]byte, error) { return nil, ErrKeyNotExportable }
func (k Key) MarshalText() ([]byte, error) { return nil, ErrKeyNotExportable }

// Wipe zeroes the key bytes in place.
func (k *Key) Wipe() {
	if k == nil {
		return
	}
	clear(k.b)
	k.b = nil
}

func (k *Key) usable() bool {
	return k != nil && len(k.b) == keyLen
}
