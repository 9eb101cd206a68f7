package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"order-momentum-lab/internal/domain"
)

// ComputeOutputFingerprint computes a deterministic fingerprint of a run's
// momentum relation using SHA256.
// Formula: SHA256(dataset_version|day:hour:scaled|day:hour:scaled|...)
// over scores in their stored order. Returns hex-encoded hash (64 characters).
//
// Identical dataset and identical scores yield an identical fingerprint, so
// reruns can be checked for determinism by comparing two fingerprints.
func ComputeOutputFingerprint(datasetVersion string, scores []*domain.MomentumScore) string {
	var b strings.Builder
	b.WriteString(datasetVersion)
	for _, s := range scores {
		fmt.Fprintf(&b, "|%d:%d:%.2f", s.DayOfWeek, s.HourOfDay, s.ScaledScore)
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}
