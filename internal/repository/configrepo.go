package repository

import (
	"database/sql"
	"fmt"
	"strings"
)

// ConfigRepository implements riskconfig.Repository over the
// climate.system_config key/value table
type ConfigRepository struct {
	db *sql.DB
}

// NewConfigRepository initializes a configuration repository
func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

func (r *ConfigRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM climate.system_config WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read config key %s: %w", key, err)
	}
	return value, true, nil
}

// likePrefix builds a LIKE pattern that matches keys starting with prefix
// literally, escaping the LIKE metacharacters so an underscore in a key name
// cannot act as a wildcard
func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return escaped + "%"
}

func (r *ConfigRepository) List(prefix string) (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM climate.system_config WHERE key LIKE $1`, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list config keys: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

func (r *ConfigRepository) SetAll(values map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin config transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertAll(tx, values); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit config write: %w", err)
	}
	return nil
}

func (r *ConfigRepository) Replace(prefix string, values map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin config transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM climate.system_config WHERE key LIKE $1`, likePrefix(prefix)); err != nil {
		return fmt.Errorf("failed to clear config prefix %s: %w", prefix, err)
	}
	if err := upsertAll(tx, values); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit config replace: %w", err)
	}
	return nil
}

func (r *ConfigRepository) DeletePrefix(prefix string) error {
	if _, err := r.db.Exec(`DELETE FROM climate.system_config WHERE key LIKE $1`, likePrefix(prefix)); err != nil {
		return fmt.Errorf("failed to delete config prefix %s: %w", prefix, err)
	}
	return nil
}

func upsertAll(tx *sql.Tx, values map[string]string) error {
	query := `
		INSERT INTO climate.system_config (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`
	for key, value := range values {
		if _, err := tx.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to upsert config key %s: %w", key, err)
		}
	}
	return nil
}
