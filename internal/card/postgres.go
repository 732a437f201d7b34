package card

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore is a shared card catalog backed by Postgres, for setups
// where many simulator runs draw from one imported card database (see
// scripts/import_cards.go for the importer).
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to the catalog database and verifies the
// connection.
func NewPostgresStore(ctx context.Context, databaseURL string, logger *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to card catalog: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping card catalog: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the cards table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS cards (
		name        TEXT PRIMARY KEY,
		mana_cost   TEXT NOT NULL DEFAULT '',
		cmc         INT  NOT NULL DEFAULT 0,
		type_line   TEXT NOT NULL DEFAULT '',
		oracle_text TEXT NOT NULL DEFAULT '',
		power       TEXT NOT NULL DEFAULT '',
		toughness   TEXT NOT NULL DEFAULT '',
		loyalty     TEXT NOT NULL DEFAULT '',
		colors      TEXT NOT NULL DEFAULT '',
		keywords    TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return fmt.Errorf("ensure catalog schema: %w", err)
	}
	return nil
}

// GetContext returns the definition for an exact name.
func (s *PostgresStore) GetContext(ctx context.Context, name string) (*Definition, bool, error) {
	row := s.pool.QueryRow(ctx, `SELECT name, mana_cost, cmc, type_line, oracle_text,
		power, toughness, loyalty, colors, keywords FROM cards WHERE name = $1`, name)

	var def Definition
	var colors, keywords string
	err := row.Scan(&def.Name, &def.ManaCost, &def.CMC, &def.TypeLine, &def.OracleText,
		&def.Power, &def.Toughness, &def.Loyalty, &colors, &keywords)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query card %q: %w", name, err)
	}
	def.Colors = splitList(colors)
	def.Keywords = splitList(keywords)
	return &def, true, nil
}

// Get implements Catalog. Lookups run with a background context; callers
// that need cancellation should use GetContext.
func (s *PostgresStore) Get(name string) (*Definition, bool) {
	def, ok, err := s.GetContext(context.Background(), name)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("catalog lookup failed", zap.String("card", name), zap.Error(err))
		}
		return nil, false
	}
	return def, ok
}

// Upsert inserts or updates a definition.
func (s *PostgresStore) Upsert(ctx context.Context, def *Definition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("cannot store a definition without a name")
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO cards
		(name, mana_cost, cmc, type_line, oracle_text, power, toughness, loyalty, colors, keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name) DO UPDATE SET
			mana_cost = EXCLUDED.mana_cost,
			cmc = EXCLUDED.cmc,
			type_line = EXCLUDED.type_line,
			oracle_text = EXCLUDED.oracle_text,
			power = EXCLUDED.power,
			toughness = EXCLUDED.toughness,
			loyalty = EXCLUDED.loyalty,
			colors = EXCLUDED.colors,
			keywords = EXCLUDED.keywords`,
		def.Name, def.ManaCost, def.CMC, def.TypeLine, def.OracleText,
		def.Power, def.Toughness, def.Loyalty,
		strings.Join(def.Colors, ","), strings.Join(def.Keywords, ","))
	if err != nil {
		return fmt.Errorf("upsert card %q: %w", def.Name, err)
	}
	return nil
}

// UpsertBatch stores definitions in a single transaction.
func (s *PostgresStore) UpsertBatch(ctx context.Context, defs []*Definition) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin catalog import: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, def := range defs {
		if def == nil || def.Name == "" {
			continue
		}
		if _, err := tx.Exec(ctx, `INSERT INTO cards
			(name, mana_cost, cmc, type_line, oracle_text, power, toughness, loyalty, colors, keywords)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (name) DO UPDATE SET
				mana_cost = EXCLUDED.mana_cost,
				cmc = EXCLUDED.cmc,
				type_line = EXCLUDED.type_line,
				oracle_text = EXCLUDED.oracle_text,
				power = EXCLUDED.power,
				toughness = EXCLUDED.toughness,
				loyalty = EXCLUDED.loyalty,
				colors = EXCLUDED.colors,
				keywords = EXCLUDED.keywords`,
			def.Name, def.ManaCost, def.CMC, def.TypeLine, def.OracleText,
			def.Power, def.Toughness, def.Loyalty,
			strings.Join(def.Colors, ","), strings.Join(def.Keywords, ",")); err != nil {
			return fmt.Errorf("import card %q: %w", def.Name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog import: %w", err)
	}
	return nil
}

// Count returns the number of stored definitions.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog cards: %w", err)
	}
	return n, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
