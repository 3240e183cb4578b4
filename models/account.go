package models

// SystemAccountID is the reserved system account. It is the interest sink
// for accrual audit rows and is excluded from normal login.
const SystemAccountID int64 = 1

// Account represents a bank account as stored by the authority. The balance
// itself never appears here in cleartext: BalancePath points at the
// homomorphic ciphertext blob held by the storage tier.
type Account struct {
	// ID is the unique account identifier and primary key.
	ID int64 `json:"id"`

	// DisplayName is the account holder's display name.
	// It is non-sensitive and may be shown to the client.
	DisplayName string `json:"display_name"`

	// PINHash is the derived representation of the account PIN.
	// This value MUST be a KDF output, never the plaintext PIN.
	// It is never exposed via JSON.
	PINHash string `json:"-"`

	// BalancePath is the storage-tier path of the account's current
	// balance ciphertext. Updated only by the transaction coordinator.
	BalancePath string `json:"-"`

	// PublicKey is the serialized homomorphic public key the balance
	// was encrypted under.
	PublicKey []byte `json:"-"`

	// InterestRate is the per-accrual interest rate applied by the
	// interest worker (e.g. 0.01 for 1%).
	InterestRate float64 `json:"interest_rate"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
