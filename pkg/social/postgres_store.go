package social

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLinkStore implements LinkStore on top of a pgx connection pool.
// The primary key on identity_key is what turns a concurrent provisioning
// race into ErrConflict for the resolver's single retry.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// linkSchema creates the backing table. Idempotent.
const linkSchema = `
CREATE TABLE IF NOT EXISTS social_identity_links (
	identity_key TEXT PRIMARY KEY,
	account_id   TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS social_identity_links_account_idx
	ON social_identity_links (account_id);
`

// NewPostgresLinkStore creates a link store backed by the given pool.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

// EnsureSchema creates the identity link table if it does not exist.
func (s *PostgresLinkStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, linkSchema)
	return err
}

func (s *PostgresLinkStore) CreateLink(ctx context.Context, key IdentityKey, accountID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO social_identity_links (identity_key, account_id) VALUES ($1, $2)`,
		string(key), accountID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *PostgresLinkStore) FindAccountID(ctx context.Context, key IdentityKey) (string, error) {
	var accountID string
	err := s.pool.QueryRow(ctx,
		`SELECT account_id FROM social_identity_links WHERE identity_key = $1`,
		string(key),
	).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrLinkNotFound
		}
		return "", err
	}
	return accountID, nil
}

func (s *PostgresLinkStore) DeleteLink(ctx context.Context, key IdentityKey) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM social_identity_links WHERE identity_key = $1`,
		string(key),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (s *PostgresLinkStore) LinksForAccount(ctx context.Context, accountID string) ([]IdentityLink, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT identity_key, account_id, created_at FROM social_identity_links WHERE account_id = $1 ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []IdentityLink
	for rows.Next() {
		var link IdentityLink
		var key string
		if err := rows.Scan(&key, &link.AccountID, &link.CreatedAt); err != nil {
			return nil, err
		}
		link.Key = IdentityKey(key)
		links = append(links, link)
	}
	return links, rows.Err()
}

// Compile-time interface assertion
var _ LinkStore = (*PostgresLinkStore)(nil)
