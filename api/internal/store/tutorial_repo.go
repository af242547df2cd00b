package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"design-tutor/api/internal/tutor"
)

type TutorialRepo struct{ DB *sql.DB }

func NewTutorialRepo(db *sql.DB) *TutorialRepo { return &TutorialRepo{DB: db} }

// HistoryRow — запись истории без тела туториала.
type HistoryRow struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Language      string    `json:"language"`
	Engine        string    `json:"engine"`
	Model         string    `json:"model"`
	ImageSHA256   string    `json:"image_sha256"`
	Difficulty    string    `json:"estimated_difficulty"`
	EstimatedTime string    `json:"estimated_time"`
	Components    []string  `json:"components_detected"`
}

const schema = `
create table if not exists tutorials (
    id             bigserial primary key,
    created_at     timestamptz not null default now(),
    language       text not null,
    engine         text not null,
    model          text not null,
    image_sha256   text not null,
    difficulty     text not null,
    estimated_time text not null,
    components     jsonb not null,
    tutorial       text not null
)`

// Migrate creates the tutorials table if it is missing.
func (r *TutorialRepo) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate tutorials: %w", err)
	}
	return nil
}

// Record appends one successful analysis.
func (r *TutorialRepo) Record(ctx context.Context, rec tutor.Record) error {
	comps, err := json.Marshal(rec.Response.ComponentsDetected)
	if err != nil {
		return err
	}
	const q = `
insert into tutorials(language, engine, model, image_sha256, difficulty, estimated_time, components, tutorial)
values ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.DB.ExecContext(ctx, q,
		rec.Language, rec.Engine, rec.Model, rec.ImageSHA256,
		rec.Response.EstimatedDifficulty, rec.Response.EstimatedTime,
		comps, rec.Response.Tutorial)
	return err
}

// Recent returns the newest entries first.
func (r *TutorialRepo) Recent(ctx context.Context, limit int) ([]HistoryRow, error) {
	const q = `
select id, created_at, language, engine, model, image_sha256, difficulty, estimated_time, components
from tutorials
order by created_at desc, id desc
limit $1`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HistoryRow, 0, limit)
	for rows.Next() {
		var (
			h     HistoryRow
			comps []byte
		)
		if err := rows.Scan(&h.ID, &h.CreatedAt, &h.Language, &h.Engine, &h.Model,
			&h.ImageSHA256, &h.Difficulty, &h.EstimatedTime, &comps); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(comps, &h.Components); err != nil {
			// битый jsonb — отдаём строку без компонентов
			h.Components = nil
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
