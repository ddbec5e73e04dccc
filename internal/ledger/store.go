package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Store persists transactions in a single SQLite file. Every operation opens
// the file, does its work and closes it again; nothing is held between calls.
type Store struct {
	path string
	log  zerolog.Logger
	now  func() time.Time
}

// NewStore creates a Store backed by the database file at path.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "ledger").Logger(),
		now:  time.Now,
	}
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Input is a transaction as typed by the user, before coercion.
type Input struct {
	Account string
	Amount  string
	Type    string
	Note    string
	Date    string // blank means today
}

// Initialize creates the transactions table if it does not exist yet. It is
// safe to call on every start and never touches existing rows.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	if err := runMigrations(s.path); err != nil {
		return err
	}
	s.log.Debug().Str("path", s.path).Msg("ledger initialized")
	return nil
}

// AppendInput coerces raw input and appends it. Validation failures are
// *model.ValidationError and leave the table untouched.
func (s *Store) AppendInput(ctx context.Context, in Input) (int64, error) {
	txn, err := model.NewTransaction(in.Account, in.Amount, in.Type, in.Note, in.Date, s.now())
	if err != nil {
		return 0, err
	}
	return s.Append(ctx, txn)
}

// Append inserts one transaction and returns its assigned id.
func (s *Store) Append(ctx context.Context, txn model.Transaction) (int64, error) {
	if err := txn.Validate(); err != nil {
		return 0, err
	}

	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`INSERT INTO transactions (account, amount, type, note, date) VALUES (?, ?, ?, ?, ?)`,
		txn.Account, txn.Amount.InexactFloat64(), string(txn.Type), txn.Note, txn.DateString())
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}

	s.log.Info().
		Int64("id", id).
		Str("account", txn.Account).
		Str("amount", txn.Amount.StringFixed(2)).
		Str("type", string(txn.Type)).
		Str("date", txn.DateString()).
		Msg("transaction appended")
	return id, nil
}

// ListAll returns every transaction, newest date first. Rows sharing a date
// come back in insertion order. Legacy rows with unpadded dates ("2024-1-5")
// are read leniently and rows with unreadable dates keep their raw text.
func (s *Store) ListAll(ctx context.Context) ([]model.Transaction, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, account, amount, type, note, date FROM transactions ORDER BY date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var (
			id                          int64
			account, typ, note, dateStr sql.NullString
			amount                      sql.NullFloat64
		)
		if err := rows.Scan(&id, &account, &amount, &typ, &note, &dateStr); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		date, rawDate := model.ParseStoredDate(dateStr.String)
		if rawDate != "" || !dateStr.Valid {
			s.log.Warn().Int64("id", id).Str("date", dateStr.String).Msg("stored date is not YYYY-MM-DD, shown as-is")
		}
		entryType := model.EntryType(typ.String)
		if !entryType.Valid() {
			return nil, fmt.Errorf("transaction %d: %w", id, model.ErrInvalidType)
		}
		txns = append(txns, model.Transaction{
			ID:      id,
			Account: account.String,
			Amount:  fromReal(amount.Float64),
			Type:    entryType,
			Note:    note.String,
			Date:    date,
			RawDate: rawDate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	// Text order is wrong for unpadded legacy dates; rows with unreadable
	// dates sink to the bottom in id order.
	slices.SortStableFunc(txns, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	s.log.Debug().Int("count", len(txns)).Msg("transactions listed")
	return txns, nil
}

// SumByAccountAndType returns the summed amount for every (account, type)
// pair present, ordered by account then type.
func (s *Store) SumByAccountAndType(ctx context.Context) ([]model.AccountTypeSum, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT account, type, SUM(amount) FROM transactions GROUP BY account, type ORDER BY account, type`)
	if err != nil {
		return nil, fmt.Errorf("querying sums: %w", err)
	}
	defer rows.Close()

	var sums []model.AccountTypeSum
	for rows.Next() {
		var (
			account, typ sql.NullString
			total        sql.NullFloat64
		)
		if err := rows.Scan(&account, &typ, &total); err != nil {
			return nil, fmt.Errorf("scanning sum: %w", err)
		}
		sums = append(sums, model.AccountTypeSum{
			Account: account.String,
			Type:    model.EntryType(typ.String),
			Total:   fromReal(total.Float64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sums: %w", err)
	}
	return sums, nil
}

// Count returns the number of stored transactions.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(driverName, s.path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", s.path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database %s: %w", s.path, err)
	}
	return db, nil
}

// fromReal converts a REAL column back to an exact two-place decimal.
func fromReal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
