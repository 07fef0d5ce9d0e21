package database

import (
	"context"
	"database/sql"
)

// schemaDDL creates the slots table.  The catalog is keyed by a surrogate id
// and additionally constrained so that each (date, time, group) combination
// exists at most once.  Occupant columns are nullable: a free slot has both
// user_name and secret_code NULL, a held slot has both set.  secret_code is
// indexed because holder lookups are keyed by it.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS slots (
    id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    date        CHAR(10)     NOT NULL,
    time        CHAR(5)      NOT NULL,
    group_name  VARCHAR(64)  NOT NULL,
    user_name   VARCHAR(190) NULL,
    secret_code VARCHAR(190) NULL,
    created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_slots_date_time_group (date, time, group_name),
    KEY idx_slots_secret_code (secret_code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the slots table when it does not exist yet.  It is
// idempotent and safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}
