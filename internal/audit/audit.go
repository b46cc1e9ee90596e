// Package audit persists the activity log shown on the admin dashboard.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Log represents one row of the atividade_logs table.
type Log struct {
	ID        int64     `db:"id" json:"id"`
	UsuarioID *int64    `db:"usuario_id" json:"usuario_id"`
	Acao      string    `db:"acao" json:"acao"`
	IP        *string   `db:"ip" json:"ip"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// listLimit caps the log listing returned to the dashboard.
const listLimit = 100

// Recorder writes and lists activity log entries.
type Recorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRecorder creates a new activity log recorder
func NewRecorder(db *sqlx.DB, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Record persists an activity entry. Logging is best-effort: a storage
// failure is logged and swallowed so it never fails the request that
// triggered it.
func (r *Recorder) Record(ctx context.Context, usuarioID *int64, acao, ip string) {
	query := `INSERT INTO atividade_logs (usuario_id, acao, ip) VALUES ($1, $2, $3)`

	var ipValue *string
	if ip != "" {
		ipValue = &ip
	}

	if _, err := r.db.ExecContext(ctx, query, usuarioID, acao, ipValue); err != nil {
		r.logger.Error("failed to record activity log",
			zap.String("acao", acao),
			zap.Error(err),
		)
	}
}

// ListRecent returns the newest entries, most recent first.
func (r *Recorder) ListRecent(ctx context.Context) ([]Log, error) {
	logs := []Log{}
	query := `SELECT id, usuario_id, acao, ip, created_at
			  FROM atividade_logs
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1`

	if err := r.db.SelectContext(ctx, &logs, query, listLimit); err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	return logs, nil
}
