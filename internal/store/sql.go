package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/internal/models"
)

// Dialect picks the database/sql driver and placeholder style. The schema is
// shared, so the same statements run on both engines.
type Dialect struct {
	name     string
	driver   string
	numbered bool
}

var (
	SQLite   = Dialect{name: "sqlite", driver: "sqlite"}
	Postgres = Dialect{name: "postgres", driver: "pgx", numbered: true}
)

// rebind rewrites ? placeholders to $n for dialects that number them.
func (d Dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type sqlStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLiteStore opens (creating if needed) the database file and migrates it.
func NewSQLiteStore(path string) (*sqlStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	return openSQLStore(SQLite, path)
}

func NewPostgresStore(dsn string) (*sqlStore, error) {
	return openSQLStore(Postgres, dsn)
}

func openSQLStore(d Dialect, dsn string) (*sqlStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if d == SQLite {
		// One writer at a time; concurrent writers only see SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, err
	}
	return &sqlStore{db: db, dialect: d}, nil
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqlStore) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(q), args...)
}

func (s *sqlStore) Load(ctx context.Context, account string) (*models.Ledger, error) {
	l := models.NewLedger(account)

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT highest_balance, seq_transaction, seq_rule, seq_goal, seq_request, seq_message
		FROM accounts WHERE account_id = ?`), account)
	var (
		highest string
		seq     models.Sequences
	)
	err := row.Scan(&highest, &seq.Transaction, &seq.Rule, &seq.Goal, &seq.Request, &seq.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return l, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to load account", err)
	}
	if l.Meta.HighestBalance, err = decimal.NewFromString(highest); err != nil {
		return nil, errs.NewDatabaseError("read", "corrupt highest balance", err)
	}
	l.Meta.Sequences = seq

	loaders := []func(context.Context, *models.Ledger) error{
		s.loadTransactions,
		s.loadRules,
		s.loadGoals,
		s.loadRequests,
		s.loadMessages,
	}
	for _, load := range loaders {
		if err := load(ctx, l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (s *sqlStore) loadTransactions(ctx context.Context, l *models.Ledger) error {
	rows, err := s.query(ctx, `SELECT id, occurred_at, amount, type, external_iban, description, category_id, category_name, saving_goal_id
		FROM transactions WHERE account_id = ? ORDER BY id`, l.AccountID)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to load transactions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t       models.Transaction
			at      int64
			amount  string
			catID   sql.NullInt64
			catName sql.NullString
			goalID  sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &at, &amount, &t.Type, &t.ExternalIBAN, &t.Description, &catID, &catName, &goalID); err != nil {
			return errs.NewDatabaseError("read", "failed to scan transaction", err)
		}
		t.Date = fromMillis(at)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return errs.NewDatabaseError("read", "corrupt transaction amount", err)
		}
		if catID.Valid {
			t.Category = &models.Category{ID: catID.Int64, Name: catName.String}
		}
		if goalID.Valid {
			id := goalID.Int64
			t.SavingGoalID = &id
		}
		l.Transactions = append(l.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to iterate transactions", err)
	}
	return nil
}

func (s *sqlStore) loadRules(ctx context.Context, l *models.Ledger) error {
	rows, err := s.query(ctx, `SELECT id, description, iban, type, category_id, category_name, apply_on_history
		FROM category_rules WHERE account_id = ? ORDER BY id`, l.AccountID)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to load category rules", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.CategoryRule
		if err := rows.Scan(&r.ID, &r.Description, &r.IBAN, &r.Type, &r.Category.ID, &r.Category.Name, &r.ApplyOnHistory); err != nil {
			return errs.NewDatabaseError("read", "failed to scan category rule", err)
		}
		l.Rules = append(l.Rules, r)
	}
	if err := rows.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to iterate category rules", err)
	}
	return nil
}

func (s *sqlStore) loadGoals(ctx context.Context, l *models.Ledger) error {
	rows, err := s.query(ctx, `SELECT id, name, goal, save_per_month, min_balance_required, balance, completed, created_at
		FROM saving_goals WHERE account_id = ? ORDER BY id`, l.AccountID)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to load saving goals", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g models.SavingGoal
		var goal, perMonth, minBalance, saved string
		var created int64
		if err := rows.Scan(&g.ID, &g.Name, &goal, &perMonth, &minBalance, &saved, &g.Completed, &created); err != nil {
			return errs.NewDatabaseError("read", "failed to scan saving goal", err)
		}
		amounts, err := parseDecimals(goal, perMonth, minBalance, saved)
		if err != nil {
			return errs.NewDatabaseError("read", "corrupt saving goal amount", err)
		}
		g.Goal, g.SavePerMonth, g.MinBalanceRequired, g.Balance = amounts[0], amounts[1], amounts[2], amounts[3]
		g.CreatedAt = fromMillis(created)
		l.Goals = append(l.Goals, g)
	}
	if err := rows.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to iterate saving goals", err)
	}
	return nil
}

func (s *sqlStore) loadRequests(ctx context.Context, l *models.Ledger) error {
	rows, err := s.query(ctx, `SELECT id, description, due_date, amount, number_of_requests, filled, expired, matched, created_at
		FROM payment_requests WHERE account_id = ? ORDER BY id`, l.AccountID)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to load payment requests", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.PaymentRequest
		var due, created int64
		var amount, matched string
		if err := rows.Scan(&p.ID, &p.Description, &due, &amount, &p.NumberOfRequests, &p.Filled, &p.Expired, &matched, &created); err != nil {
			return errs.NewDatabaseError("read", "failed to scan payment request", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return errs.NewDatabaseError("read", "corrupt payment request amount", err)
		}
		if err := json.Unmarshal([]byte(matched), &p.Transactions); err != nil {
			return errs.NewDatabaseError("read", "corrupt matched transactions", err)
		}
		p.DueDate = fromMillis(due)
		p.CreatedAt = fromMillis(created)
		l.Requests = append(l.Requests, p)
	}
	if err := rows.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to iterate payment requests", err)
	}
	return nil
}

func (s *sqlStore) loadMessages(ctx context.Context, l *models.Ledger) error {
	rows, err := s.query(ctx, `SELECT id, message, sent_at, is_read, type
		FROM user_messages WHERE account_id = ? ORDER BY id`, l.AccountID)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to load messages", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m  models.UserMessage
			at int64
		)
		if err := rows.Scan(&m.ID, &m.Message, &at, &m.Read, &m.Type); err != nil {
			return errs.NewDatabaseError("read", "failed to scan message", err)
		}
		m.Date = fromMillis(at)
		l.Messages = append(l.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to iterate messages", err)
	}
	return nil
}

// Commit writes the changeset in one database transaction. Upserts are a
// delete followed by an insert so the statements stay portable.
func (s *sqlStore) Commit(ctx context.Context, account string, cs *models.Changeset) (err error) {
	if cs == nil || cs.Empty() {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDatabaseError("write", "failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	exec := func(q string, args ...any) error {
		_, err := tx.ExecContext(ctx, s.dialect.rebind(q), args...)
		return err
	}

	seq := cs.Meta.Sequences
	if err = exec(`INSERT INTO accounts (account_id, highest_balance, seq_transaction, seq_rule, seq_goal, seq_request, seq_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			highest_balance = excluded.highest_balance,
			seq_transaction = excluded.seq_transaction,
			seq_rule = excluded.seq_rule,
			seq_goal = excluded.seq_goal,
			seq_request = excluded.seq_request,
			seq_message = excluded.seq_message`,
		account, cs.Meta.HighestBalance.String(), seq.Transaction, seq.Rule, seq.Goal, seq.Request, seq.Message); err != nil {
		return errs.NewDatabaseError("write", "failed to write account", err)
	}

	for _, t := range cs.Transactions.Upserted {
		var catID, goalID sql.NullInt64
		var catName sql.NullString
		if t.Category != nil {
			catID = sql.NullInt64{Int64: t.Category.ID, Valid: true}
			catName = sql.NullString{String: t.Category.Name, Valid: true}
		}
		if t.SavingGoalID != nil {
			goalID = sql.NullInt64{Int64: *t.SavingGoalID, Valid: true}
		}
		if err = deleteRow(exec, "transactions", account, t.ID); err != nil {
			return err
		}
		if err = exec(`INSERT INTO transactions (account_id, id, occurred_at, amount, type, external_iban, description, category_id, category_name, saving_goal_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			account, t.ID, t.Date.UnixMilli(), t.Amount.String(), string(t.Type), t.ExternalIBAN, t.Description, catID, catName, goalID); err != nil {
			return errs.NewDatabaseError("write", "failed to write transaction", err)
		}
	}
	for _, r := range cs.Rules.Upserted {
		if err = deleteRow(exec, "category_rules", account, r.ID); err != nil {
			return err
		}
		if err = exec(`INSERT INTO category_rules (account_id, id, description, iban, type, category_id, category_name, apply_on_history)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			account, r.ID, r.Description, r.IBAN, string(r.Type), r.Category.ID, r.Category.Name, r.ApplyOnHistory); err != nil {
			return errs.NewDatabaseError("write", "failed to write category rule", err)
		}
	}
	for _, g := range cs.Goals.Upserted {
		if err = deleteRow(exec, "saving_goals", account, g.ID); err != nil {
			return err
		}
		if err = exec(`INSERT INTO saving_goals (account_id, id, name, goal, save_per_month, min_balance_required, balance, completed, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			account, g.ID, g.Name, g.Goal.String(), g.SavePerMonth.String(), g.MinBalanceRequired.String(), g.Balance.String(), g.Completed, g.CreatedAt.UnixMilli()); err != nil {
			return errs.NewDatabaseError("write", "failed to write saving goal", err)
		}
	}
	for _, p := range cs.Requests.Upserted {
		matched, err := json.Marshal(nonNil(p.Transactions))
		if err != nil {
			return errs.NewDatabaseError("write", "failed to encode matched transactions", err)
		}
		if err = deleteRow(exec, "payment_requests", account, p.ID); err != nil {
			return err
		}
		if err = exec(`INSERT INTO payment_requests (account_id, id, description, due_date, amount, number_of_requests, filled, expired, matched, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			account, p.ID, p.Description, p.DueDate.UnixMilli(), p.Amount.String(), p.NumberOfRequests, p.Filled, p.Expired, string(matched), p.CreatedAt.UnixMilli()); err != nil {
			return errs.NewDatabaseError("write", "failed to write payment request", err)
		}
	}
	for _, m := range cs.Messages.Upserted {
		if err = deleteRow(exec, "user_messages", account, m.ID); err != nil {
			return err
		}
		if err = exec(`INSERT INTO user_messages (account_id, id, message, sent_at, is_read, type)
			VALUES (?, ?, ?, ?, ?, ?)`,
			account, m.ID, m.Message, m.Date.UnixMilli(), m.Read, string(m.Type)); err != nil {
			return errs.NewDatabaseError("write", "failed to write message", err)
		}
	}

	deletes := []struct {
		table string
		ids   []int64
	}{
		{"transactions", cs.Transactions.Deleted},
		{"category_rules", cs.Rules.Deleted},
		{"saving_goals", cs.Goals.Deleted},
		{"payment_requests", cs.Requests.Deleted},
		{"user_messages", cs.Messages.Deleted},
	}
	for _, d := range deletes {
		for _, id := range d.ids {
			if err = deleteRow(exec, d.table, account, id); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return errs.NewDatabaseError("write", "failed to commit transaction", err)
	}
	return nil
}

func deleteRow(exec func(string, ...any) error, table, account string, id int64) error {
	if err := exec("DELETE FROM "+table+" WHERE account_id = ? AND id = ?", account, id); err != nil {
		return errs.NewDatabaseError("write", "failed to delete from "+table, err)
	}
	return nil
}

func parseDecimals(raw ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(raw))
	for i, r := range raw {
		d, err := decimal.NewFromString(r)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
