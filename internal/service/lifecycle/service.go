// Package lifecycle installs, removes and migrates the watchers schema.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/repository"
)

const (
	// Version is the schema version this build expects.
	Version    = "0.1.0"
	VersionKey = "plugin_watchers.db-version"
)

var installStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + repository.WatchersTable + ` (
		project_id  BIGINT      NOT NULL,
		ticket_id   BIGINT      NOT NULL DEFAULT 0,
		user_id     BIGINT      NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		modified_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (project_id, ticket_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plugin_watchers_ticket_id ON ` + repository.WatchersTable + ` (ticket_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plugin_watchers_user_id ON ` + repository.WatchersTable + ` (user_id)`,
}

var uninstallStatements = []string{
	`DROP TABLE IF EXISTS ` + repository.WatchersTable,
	`DROP FUNCTION IF EXISTS zp_plugin_watchers_touch()`,
}

// Update is one versioned schema script. It runs inside a transaction.
type Update func(ctx context.Context, tx *sqlx.Tx) error

// updates lists the script versions in normalized form; routines holds the
// script for each one.
var (
	updates = []int{1, 100}

	routines = map[int]Update{
		1:   execAll(installStatements...),
		100: execAll(touchStatements...),
	}
)

// touchStatements keep modified_at current on every row update.
var touchStatements = []string{
	`CREATE OR REPLACE FUNCTION zp_plugin_watchers_touch() RETURNS trigger AS $$
	BEGIN
		NEW.modified_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS zp_plugin_watchers_touch ON ` + repository.WatchersTable,
	`CREATE TRIGGER zp_plugin_watchers_touch BEFORE UPDATE ON ` + repository.WatchersTable + `
		FOR EACH ROW EXECUTE FUNCTION zp_plugin_watchers_touch()`,
}

type Service interface {
	Install(ctx context.Context) error
	Uninstall(ctx context.Context) error
	EnsureSchemaVersion(ctx context.Context) error
}

type service struct {
	db       *sqlx.DB
	settings repository.SettingRepository
	target   string
	updates  []int
	routines map[int]Update
}

func NewService(db *sqlx.DB, settings repository.SettingRepository) Service {
	return newService(db, settings, Version, updates, routines)
}

func newService(db *sqlx.DB, settings repository.SettingRepository, target string, versions []int, scripts map[int]Update) *service {
	sorted := append([]int(nil), versions...)
	sort.Ints(sorted)
	return &service{
		db:       db,
		settings: settings,
		target:   target,
		updates:  sorted,
		routines: scripts,
	}
}

// Install creates the watchers table and its indexes. Every statement is
// attempted; failures are reported together.
func (s *service) Install(ctx context.Context) error {
	if err := s.execEach(ctx, "install", installStatements); err != nil {
		log.Error().Err(err).Msg("failed to install watchers plugin")
		return err
	}
	return nil
}

func (s *service) Uninstall(ctx context.Context) error {
	if err := s.execEach(ctx, "uninstall", uninstallStatements); err != nil {
		log.Error().Err(err).Msg("failed to uninstall watchers plugin")
		return err
	}
	return nil
}

func (s *service) execEach(ctx context.Context, op string, statements []string) error {
	var errs []error
	for i, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			errs = append(errs, domain.NewStorageError(fmt.Sprintf("%s statement %d", op, i+1), err))
		}
	}
	return errors.Join(errs...)
}

// EnsureSchemaVersion applies every pending update script in ascending order
// and records each applied version. The first missing or failing script stops
// the run.
func (s *service) EnsureSchemaVersion(ctx context.Context) error {
	target, err := NormalizeVersion(s.target)
	if err != nil {
		return fmt.Errorf("invalid target version: %w", err)
	}

	stored, _, err := s.settings.Get(ctx, VersionKey)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	current := 0
	if stored != "" {
		if current, err = NormalizeVersion(stored); err != nil {
			return fmt.Errorf("invalid stored version: %w", err)
		}
	}

	if current >= target {
		return nil
	}

	for _, version := range s.updates {
		if version <= current || version > target {
			continue
		}

		routine, ok := s.routines[version]
		if !ok {
			return fmt.Errorf("update routine for version %s does not exist", FormatVersion(version))
		}
		if err := s.apply(ctx, routine); err != nil {
			return fmt.Errorf("failed to apply update %s: %w", FormatVersion(version), err)
		}
		if err := s.settings.Set(ctx, VersionKey, FormatVersion(version)); err != nil {
			return fmt.Errorf("failed to record version %s: %w", FormatVersion(version), err)
		}
		current = version

		log.Info().Str("version", FormatVersion(version)).Msg("applied schema update")
	}

	if current < target {
		if err := s.settings.Set(ctx, VersionKey, s.target); err != nil {
			return fmt.Errorf("failed to record version %s: %w", s.target, err)
		}
	}
	return nil
}

func (s *service) apply(ctx context.Context, routine Update) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("begin update", err)
	}
	defer tx.Rollback()

	if err := routine(ctx, tx); err != nil {
		return err
	}
	return domain.NewStorageError("commit update", tx.Commit())
}

func execAll(statements ...string) Update {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return domain.NewStorageError(fmt.Sprintf("update statement %d", i+1), err)
			}
		}
		return nil
	}
}

// NormalizeVersion turns "A.B.C" into A*10000 + B*100 + C, the numeric
// form of "A" + two-digit B + two-digit C.
func NormalizeVersion(v string) (int, error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) != 3 {
		return 0, fmt.Errorf("version %q is not major.minor.patch", v)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("version %q has invalid part %q", v, p)
		}
		if i > 0 && n > 99 {
			return 0, fmt.Errorf("version %q part %q exceeds two digits", v, p)
		}
		nums[i] = n
	}
	return nums[0]*10000 + nums[1]*100 + nums[2], nil
}

func FormatVersion(n int) string {
	return fmt.Sprintf("%d.%d.%d", n/10000, n/100%100, n%100)
}
