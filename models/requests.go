package models

// LoginRequest is the body of PUT /login, transmitted AES-CBC encrypted
// under the negotiated session key.
type LoginRequest struct {
	// AccountID is the account to log into. The reserved system
	// account is rejected.
	AccountID int64 `json:"account_id" validate:"required,gt=0"`

	// PIN is the plaintext PIN; it is hashed server-side and compared
	// against the stored KDF output.
	PIN string `json:"pin" validate:"required,min=4"`
}

// TransferRequest is the body of POST /transfer. FromID must match the
// logged-in account of the submitting session.
type TransferRequest struct {
	FromID int64   `json:"from_id" validate:"required,gt=0"`
	ToID   int64   `json:"to_id" validate:"required,gt=0,nefield=FromID"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// DebitRequest is the body of POST /debits: a recurring transfer from the
// logged-in account, scheduled by a cron expression.
type DebitRequest struct {
	ToID     int64   `json:"to_id" validate:"required,gt=0"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Schedule string  `json:"schedule" validate:"required"`
}

// RemoveDebitRequest is the body of DELETE /debits.
type RemoveDebitRequest struct {
	DebitID int64 `json:"debit_id" validate:"required,gt=0"`
}

// BalanceResponse is the decrypted response body of GET /transfer.
type BalanceResponse struct {
	// Balance is the current account balance with two decimal places.
	Balance string `json:"balance"`
}
