package codec

import "golang.org/x/crypto/blake2b"

// ChecksumBin returns the BLAKE2b-256 digest of an encoded payload, used by
// EncodeEnvelope/DecodeEnvelope to detect corruption introduced in transit or
// at rest (additive to the core wire format, never altering it — §6
// "Envelope").
func ChecksumBin(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// VerifyBin reports whether data's BLAKE2b-256 digest matches sum.
func VerifyBin(data []byte, sum [32]byte) bool {
	return ChecksumBin(data) == sum
}
