package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/lyceumd/lyceumd/internal/platform/db"
	"github.com/lyceumd/lyceumd/internal/roles"
)

// PGDirectory implements the directory capabilities against the PostgreSQL
// read model that fronts the school's AD tree.
type PGDirectory struct {
	pool *pgxpool.Pool
}

// NewPGDirectory constructs a PGDirectory.
func NewPGDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{pool: pool}
}

const recordColumns = `sam_account_name, sn, given_name, display_name, role, school, admin_class, proxy_addresses, first_password_set`

// Record fetches a full account record by account name.
func (d *PGDirectory) Record(ctx context.Context, user string) (*Record, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM accounts WHERE sam_account_name = $1`, user)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// RoleOf returns the stored role of an account. Unknown accounts yield an
// empty role, not an error.
func (d *PGDirectory) RoleOf(ctx context.Context, user string) (roles.Role, error) {
	var role string
	err := d.pool.QueryRow(ctx,
		`SELECT role FROM accounts WHERE sam_account_name = $1`, user).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return roles.Role(role), nil
}

// List returns the basic records of every account, optionally scoped to a
// school.
func (d *PGDirectory) List(ctx context.Context, school string) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM accounts ORDER BY sam_account_name`
	args := []any{}
	if school != "" {
		query = `SELECT ` + recordColumns + ` FROM accounts WHERE school = $1 ORDER BY sam_account_name`
		args = append(args, school)
	}
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Search returns accounts whose account name or display name matches the
// term. The "global" school searches across all schools.
func (d *PGDirectory) Search(ctx context.Context, school, term string) ([]Record, error) {
	pattern := "%" + term + "%"
	query := `SELECT ` + recordColumns + ` FROM accounts
		WHERE (sam_account_name ILIKE $1 OR display_name ILIKE $1)
		ORDER BY sam_account_name`
	args := []any{pattern}
	if school != "" && school != "global" {
		query = `SELECT ` + recordColumns + ` FROM accounts
			WHERE (sam_account_name ILIKE $1 OR display_name ILIKE $1) AND school = $2
			ORDER BY sam_account_name`
		args = append(args, school)
	}
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// SetAttributes updates the writable profile fields of an account. Both
// fields are written in one transaction so a partial update never lands.
func (d *PGDirectory) SetAttributes(ctx context.Context, user string, attrs Attributes) error {
	return db.WithTx(ctx, d.pool, func(tx pgx.Tx) error {
		if attrs.DisplayName != nil {
			tag, err := tx.Exec(ctx,
				`UPDATE accounts SET display_name = $2 WHERE sam_account_name = $1`, user, *attrs.DisplayName)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}
		if attrs.ProxyAddresses != nil {
			tag, err := tx.Exec(ctx,
				`UPDATE accounts SET proxy_addresses = $2 WHERE sam_account_name = $1`, user, attrs.ProxyAddresses)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

// VerifyPassword compares a password against the stored bcrypt hash. An
// unknown account verifies as false without error, so callers cannot tell
// missing accounts from wrong passwords.
func (d *PGDirectory) VerifyPassword(ctx context.Context, user, password string) (bool, error) {
	var hash string
	err := d.pool.QueryRow(ctx,
		`SELECT password_hash FROM accounts WHERE sam_account_name = $1`, user).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var record Record
	var role string
	if err := row.Scan(
		&record.User,
		&record.Surname,
		&record.GivenName,
		&record.DisplayName,
		&role,
		&record.School,
		&record.AdminClass,
		&record.ProxyAddresses,
		&record.FirstPasswordSet,
	); err != nil {
		return nil, err
	}
	record.Role = roles.Role(role)
	return &record, nil
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

var (
	_ Reader           = (*PGDirectory)(nil)
	_ Writer           = (*PGDirectory)(nil)
	_ PasswordVerifier = (*PGDirectory)(nil)
)
