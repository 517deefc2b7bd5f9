package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/backend/internal/model"
)

// PgMessageRepository is the PostgreSQL implementation of MessageRepository.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPgMessageRepository creates a PgMessageRepository backed by the given pool.
func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ MessageRepository = (*PgMessageRepository)(nil)

// Save inserts a new messages row and populates msg.ID and msg.CreatedAt
// from the RETURNING clause.
func (r *PgMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO messages (name, email, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		msg.Name, msg.Email, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
}

// List returns all messages ordered by created_at descending.
func (r *PgMessageRepository) List(ctx context.Context) ([]model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, message, created_at
		 FROM messages
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Delete removes a message by id.
func (r *PgMessageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
