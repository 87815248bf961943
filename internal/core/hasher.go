package core

import (
	"crypto/sha256"
	"encoding/binary"
)

const genesisHashSeed = "PerpMarket:genesis:v1"

// StateHasher chains deterministic digests of the market state across the
// event log, so any replica can verify a replay byte-for-byte.
type StateHasher struct {
	prevHash [32]byte
}

func NewStateHasher() *StateHasher {
	return &StateHasher{prevHash: sha256.Sum256([]byte(genesisHashSeed))}
}

// NewStateHasherAt resumes the chain from a known tip, for snapshot restore.
func NewStateHasherAt(tip [32]byte) *StateHasher {
	return &StateHasher{prevHash: tip}
}

// ComputeHash calculates state_hash[N] = SHA-256(prev_hash || sequence ||
// state_digest) and advances the chain tip.
func (h *StateHasher) ComputeHash(sequence int64, stateDigest []byte) [32]byte {
	hasher := sha256.New()
	hasher.Write(h.prevHash[:])

	var seqBuf [8]byte
	binary.LittleEndian.PutUint64(seqBuf[:], uint64(sequence))
	hasher.Write(seqBuf[:])

	hasher.Write(stateDigest)

	var hash [32]byte
	copy(hash[:], hasher.Sum(nil))
	h.prevHash = hash
	return hash
}

// PrevHash returns the current chain tip.
func (h *StateHasher) PrevHash() [32]byte {
	return h.prevHash
}
