package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	keySupervisorPrompt  = "supervisor_prompt"
	keyFinalOutputPrompt = "final_output_prompt"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" required:"true"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

type settingRow struct {
	bun.BaseModel `bun:"table:agent_settings,alias:s"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// PostgresStore keeps one row per prompt in the agent_settings table.
type PostgresStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	store := &PostgresStore{db: db, now: time.Now}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*settingRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create agent_settings table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (Prompts, error) {
	var rows []settingRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("key IN (?)", bun.In([]string{keySupervisorPrompt, keyFinalOutputPrompt})).
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Prompts{}, fmt.Errorf("select settings: %w", err)
	}
	if len(rows) == 0 {
		return Prompts{}, ErrNotFound
	}
	return promptsFromRows(rows), nil
}

func (s *PostgresStore) Save(ctx context.Context, p Prompts) error {
	rows := rowsFromPrompts(p, s.now().UTC())
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func rowsFromPrompts(p Prompts, now time.Time) []settingRow {
	return []settingRow{
		{Key: keySupervisorPrompt, Value: p.Supervisor, UpdatedAt: now},
		{Key: keyFinalOutputPrompt, Value: p.FinalOutput, UpdatedAt: now},
	}
}

func promptsFromRows(rows []settingRow) Prompts {
	var p Prompts
	for _, r := range rows {
		switch r.Key {
		case keySupervisorPrompt:
			p.Supervisor = r.Value
		case keyFinalOutputPrompt:
			p.FinalOutput = r.Value
		}
	}
	return p
}
