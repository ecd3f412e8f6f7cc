package primitives

import (
	"golang.org/x/crypto/argon2"
)

// PasswordKDFParams mirrors the export-envelope KDF block (spec §4.1,
// §6): these values are persisted verbatim and must be honored on
// import, never silently substituted with a cheaper scheme.
type PasswordKDFParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	Salt        [16]byte
}

// DefaultPasswordKDFParams returns the parameters spec §4.1 mandates
// for the export/import passphrase KDF: 256 MiB, 3 passes, 4 lanes,
// 32-byte output, 16-byte salt.
func DefaultPasswordKDFParams() (PasswordKDFParams, error) {
	salt, err := RandomBytes(16)
	if err != nil {
		return PasswordKDFParams{}, err
	}
	p := PasswordKDFParams{
		MemoryKiB:   256 * 1024,
		Iterations:  3,
		Parallelism: 4,
		KeyLength:   32,
	}
	copy(p.Salt[:], salt)
	return p, nil
}

// DeriveWrapKey runs Argon2id over password with the given parameters,
// producing the 32-byte key used to wrap an exported identity. An
// implementation that cannot provide real Argon2id must refuse
// export/import rather than fall back to a weaker KDF; this module
// always uses the real thing (golang.org/x/crypto/argon2).
func DeriveWrapKey(password string, p PasswordKDFParams) [32]byte {
	key := argon2.IDKey([]byte(password), p.Salt[:], p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)
	var out [32]byte
	copy(out[:], key)
	return out
}
