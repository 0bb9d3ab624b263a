package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/trashure/trashure-backend/internal/utils"
)

// Open connects to the MySQL database backing the identity mirror and
// verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// MySQLProvider implements Provider against the `profiles` table.
type MySQLProvider struct {
	DB         *sql.DB
	BcryptCost int
}

// NewMySQLProvider returns a provider using the given database handle
// and bcrypt cost for credential hashing.
func NewMySQLProvider(db *sql.DB, cost int) *MySQLProvider {
	return &MySQLProvider{DB: db, BcryptCost: cost}
}

const profileColumns = "id, email, phone, created_at, updated_at"

func (p *MySQLProvider) getBy(ctx context.Context, column, value string) (*Profile, error) {
	var pr Profile
	err := p.DB.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE "+column+"=? LIMIT 1",
		value).Scan(&pr.ID, &pr.Email, &pr.Phone, &pr.CreatedAt, &pr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetUserByID fetches a profile by provider user id.
func (p *MySQLProvider) GetUserByID(ctx context.Context, id string) (*Profile, error) {
	return p.getBy(ctx, "id", id)
}

// GetUserByEmail fetches a profile by normalized email.
func (p *MySQLProvider) GetUserByEmail(ctx context.Context, email string) (*Profile, error) {
	return p.getBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByPhone fetches a profile by phone number.
func (p *MySQLProvider) GetUserByPhone(ctx context.Context, phone string) (*Profile, error) {
	return p.getBy(ctx, "phone", phone)
}

// CreateUser inserts the profile mirror for a newly registered user.
// The credential, when given, is stored as a bcrypt hash.
func (p *MySQLProvider) CreateUser(ctx context.Context, pr Profile, password string) error {
	var hash string
	if password != "" {
		var err error
		hash, err = utils.HashPassword(password, p.BcryptCost)
		if err != nil {
			return err
		}
	}
	_, err := p.DB.ExecContext(ctx,
		"INSERT INTO profiles (id, email, phone, password_hash) VALUES (?,?,?,?)",
		pr.ID, strings.ToLower(strings.TrimSpace(pr.Email)), pr.Phone, hash)
	return err
}

// UpdateUser syncs a changed email and/or credential to the mirror and
// returns the updated profile.  Empty arguments leave the stored value
// untouched.
func (p *MySQLProvider) UpdateUser(ctx context.Context, id, email, password string) (*Profile, error) {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if email != "" {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(email)))
	}
	if password != "" {
		hash, err := utils.HashPassword(password, p.BcryptCost)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "password_hash=?")
		args = append(args, hash)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := p.DB.ExecContext(ctx,
			"UPDATE profiles SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
			return nil, err
		}
	}
	return p.GetUserByID(ctx, id)
}
