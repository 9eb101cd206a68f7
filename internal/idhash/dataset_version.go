package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeDatasetVersion computes a deterministic dataset fingerprint using SHA256.
// Formula: SHA256(order_count|line_item_count|min_order_id|max_order_id)
// Returns hex-encoded hash (64 characters).
//
// The fingerprint identifies which loaded dataset produced a run's outputs.
// Two datasets with the same row counts and order id range are treated as the
// same version; the loader's write-once stores make silent in-place edits
// impossible, so this is sufficient for reproducibility bookkeeping.
func ComputeDatasetVersion(
	orderCount int64,
	lineItemCount int64,
	minOrderID int64,
	maxOrderID int64,
) string {
	data := fmt.Sprintf("%d|%d|%d|%d",
		orderCount,
		lineItemCount,
		minOrderID,
		maxOrderID,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
