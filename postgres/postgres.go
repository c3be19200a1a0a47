package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
)

func New(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Op records one statement in the detail and summary logs.
type Op struct {
	log     commonlog.CustomLoggerService
	action  string
	summary commonlog.LogEventTag
	start   time.Time
}

// Begin logs the DB_REQUEST record of a statement against table.
func Begin(log commonlog.CustomLoggerService, table, command, action, query string, params ...any) *Op {
	op := &Op{
		log:     log,
		action:  action,
		summary: commonlog.NewEventTag("postgres", command),
		start:   time.Now(),
	}

	log.Info(logAction.DB_REQUEST(action, command), map[string]any{
		"table":  table,
		"query":  query,
		"params": params,
	})
	return op
}

// Done logs the DB_RESPONSE record. sql.ErrNoRows is reported as 40400.
func (op *Op) Done(err error, result any) error {
	op.summary.ResTime = time.Since(op.start).Microseconds()
	action := logAction.DB_RESPONSE(op.action, op.summary.Command)

	switch {
	case err == nil:
		op.log.SetSummary(op.summary).Info(action, result)
	case errors.Is(err, sql.ErrNoRows):
		op.log.SetSummary(op.summary.Update("40400", "data not found")).Info(action, err.Error())
	default:
		op.log.SetSummary(op.summary.Update("50000", err.Error())).Error(action, err.Error())
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns the ILIKE pattern matching text literally anywhere in a value.
// The clause using it must declare ESCAPE '\'.
func Contains(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
