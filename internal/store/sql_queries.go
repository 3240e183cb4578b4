package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	getAccount = `SELECT id, display_name, pin_hash, balance_path, public_key, interest_rate
    FROM accounts
    WHERE id = $1;`

	getAccounts = `SELECT id, display_name, pin_hash, balance_path, public_key, interest_rate
    FROM accounts
    ORDER BY id;`

	insertTransaction = `INSERT INTO transactions (transaction_time, kind, amount_path, owner_account_id, counterparty_account_id)
    VALUES ($1, $2, $3, $4, $5);`

	updateBalancePath = `UPDATE accounts
    SET balance_path = $2
    WHERE id = $1;`

	createDebit = `INSERT INTO direct_debits (from_account_id, to_account_id, amount_path, schedule, next_run)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, from_account_id, to_account_id, amount_path, schedule, next_run;`

	updateDebitNextRun = `UPDATE direct_debits
    SET next_run = $2
    WHERE id = $1;`

	deleteDebit = `DELETE FROM direct_debits
    WHERE id = $1;`
)

// buildHistoryQuery builds the audit log SELECT for one account. squirrel
// keeps the owner filter parameterised and makes it easy to grow the query
// with time-range filters without string surgery.
func buildHistoryQuery(accountID int64) (string, []any, error) {
	return sq.Select("transaction_time", "kind", "amount_path", "owner_account_id", "counterparty_account_id").
		From("transactions").
		Where(sq.Eq{"owner_account_id": accountID}).
		OrderBy("transaction_time").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// buildDebitsQuery builds the direct debit listing, optionally scoped to one
// paying account (accountID > 0).
func buildDebitsQuery(accountID int64) (string, []any, error) {
	b := sq.Select("id", "from_account_id", "to_account_id", "amount_path", "schedule", "next_run").
		From("direct_debits").
		OrderBy("next_run").
		PlaceholderFormat(sq.Dollar)

	if accountID > 0 {
		b = b.Where(sq.Eq{"from_account_id": accountID})
	}

	return b.ToSql()
}
