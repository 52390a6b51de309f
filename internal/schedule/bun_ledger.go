package schedule

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

var errLedgerNoDB = errors.New("schedule: bun ledger requires a database")

// BunLedger stores trigger runs in SQL through bun.
type BunLedger struct {
	db *bun.DB
}

var _ Ledger = (*BunLedger)(nil)

func NewBunLedger(db *bun.DB) *BunLedger {
	return &BunLedger{db: db}
}

// Migrate creates the runs table when missing.
func (l *BunLedger) Migrate(ctx context.Context) error {
	if l.db == nil {
		return errLedgerNoDB
	}
	_, err := l.db.NewCreateTable().Model((*runModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (l *BunLedger) LastFired(ctx context.Context) (time.Time, error) {
	if l.db == nil {
		return time.Time{}, errLedgerNoDB
	}
	var model runModel
	err := l.db.NewSelect().Model(&model).OrderExpr("id DESC").Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return model.FiredAt, nil
}

func (l *BunLedger) Record(ctx context.Context, run Run) error {
	if l.db == nil {
		return errLedgerNoDB
	}
	model := runModel{
		RunID:   run.RunID,
		Slot:    run.Slot,
		FiredAt: run.FiredAt.UTC(),
		Outcome: string(run.Outcome),
		Detail:  run.Detail,
	}
	_, err := l.db.NewInsert().Model(&model).Exec(ctx)
	return err
}

func (l *BunLedger) List(ctx context.Context, limit int) ([]Run, error) {
	if l.db == nil {
		return nil, errLedgerNoDB
	}
	var models []runModel
	query := l.db.NewSelect().Model(&models).OrderExpr("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	runs := make([]Run, 0, len(models))
	for _, model := range models {
		runs = append(runs, Run{
			RunID:   model.RunID,
			Slot:    model.Slot,
			FiredAt: model.FiredAt,
			Outcome: Outcome(model.Outcome),
			Detail:  model.Detail,
		})
	}
	return runs, nil
}

type runModel struct {
	bun.BaseModel `bun:"table:postcast_trigger_runs"`

	ID      int64     `bun:",pk,autoincrement"`
	RunID   string    `bun:"run_id,notnull"`
	Slot    string    `bun:"slot,notnull"`
	FiredAt time.Time `bun:"fired_at,notnull"`
	Outcome string    `bun:"outcome,notnull"`
	Detail  string    `bun:"detail"`
}
