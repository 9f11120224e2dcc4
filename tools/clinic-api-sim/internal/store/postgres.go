package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/clinicadmin/libs/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS sim_documents (
	kind       TEXT        NOT NULL,
	id         BIGINT      NOT NULL,
	data       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (kind, id)
)`

// Postgres stores documents as JSONB rows in sim_documents.
type Postgres struct {
	pool *db.Pool
}

// NewPostgres creates the table when it is missing.
func NewPostgres(ctx context.Context, pool *db.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) List(ctx context.Context, kind string) ([]Doc, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, data
		FROM sim_documents
		WHERE kind = $1
		ORDER BY id
	`, kind)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Doc, error) {
		var (
			id   int64
			data []byte
		)
		err := row.Scan(&id, &data)
		return Doc{ID: id, Data: data}, err
	})
}

func (p *Postgres) Get(ctx context.Context, kind string, id int64) (Doc, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `
		SELECT data FROM sim_documents WHERE kind = $1 AND id = $2
	`, kind, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return Doc{}, ErrNotFound
	}
	if err != nil {
		return Doc{}, err
	}
	return Doc{ID: id, Data: data}, nil
}

func (p *Postgres) Put(ctx context.Context, kind string, doc Doc) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO sim_documents (kind, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, kind, doc.ID, []byte(doc.Data))
	return err
}

func (p *Postgres) Delete(ctx context.Context, kind string, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sim_documents WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) NextID(ctx context.Context, kind string) (int64, error) {
	var next int64
	err := p.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(id), 0) + 1 FROM sim_documents WHERE kind = $1
	`, kind).Scan(&next)
	return next, err
}

func (p *Postgres) Ping(ctx context.Context) error {
	return db.ReadyCheck(p.pool)(ctx)
}
