// Package blob names and moves ciphertext blobs. Relational rows never hold
// ciphertext bytes, only the derived storage-tier paths this package
// produces; the physical bytes live on the storage tier and are reached
// through the [StorageClient].
package blob

import (
	"fmt"
	"time"
)

// Suffix is the only file extension the storage tier accepts for ancillary
// uploads.
const Suffix = ".txt"

// TransferPath derives the storage path for a transfer-related ciphertext
// (an amount audit blob or a fresh balance snapshot). Paths embed the
// second-resolution timestamp, so historical blobs are never overwritten:
// every commit writes under a fresh name.
func TransferPath(ownerID, counterpartyID int64, at time.Time) string {
	return fmt.Sprintf("%d'%d'%d%s", ownerID, counterpartyID, at.Unix(), Suffix)
}

// BalancePath derives the storage path for a fresh balance snapshot. The
// prefix keeps balance snapshots disjoint from the amount audit blobs
// written at the same instant.
func BalancePath(ownerID int64, at time.Time) string {
	return fmt.Sprintf("balance'%d'%d%s", ownerID, at.Unix(), Suffix)
}

// DebitPath derives the storage path for a direct debit's amount ciphertext.
func DebitPath(fromID, toID int64, at time.Time) string {
	return fmt.Sprintf("debit'%d'%d'%d%s", fromID, toID, at.Unix(), Suffix)
}

// InterestPath derives the storage path for an interest accrual audit blob.
// The zero owner marks the system origin, mirroring the sink account
// convention of interest audit rows.
func InterestPath(accountID int64, at time.Time) string {
	return fmt.Sprintf("0'%d'%d%s", accountID, at.Unix(), Suffix)
}
