package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"notesapi/internal/domain/entity"
	"notesapi/internal/domain/repository"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notes (id, owner_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, n.ID, n.OwnerID, n.Title, n.Content)

	return row.Scan(&n.CreatedAt, &n.UpdatedAt)
}

// escapeLike neutralizes LIKE metacharacters so the query is a literal
// substring match.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID, query string, limit, offset int) ([]entity.Note, error) {
	var rows pgx.Rows
	var err error
	if query == "" {
		rows, err = r.pool.Query(ctx, `
			SELECT id, owner_id, title, content, created_at, updated_at
			FROM notes
			WHERE owner_id = $1
			ORDER BY updated_at DESC
			LIMIT $2 OFFSET $3
		`, ownerID, limit, offset)
	} else {
		pattern := "%" + escapeLike(query) + "%"
		rows, err = r.pool.Query(ctx, `
			SELECT id, owner_id, title, content, created_at, updated_at
			FROM notes
			WHERE owner_id = $1 AND (title ILIKE $2 OR content ILIKE $2)
			ORDER BY updated_at DESC
			LIMIT $3 OFFSET $4
		`, ownerID, pattern, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]entity.Note, 0, limit)
	for rows.Next() {
		var n entity.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) GetByID(ctx context.Context, ownerID, noteID string) (*entity.Note, error) {
	n := &entity.Note{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, content, created_at, updated_at
		FROM notes
		WHERE id = $1 AND owner_id = $2
	`, noteID, ownerID)

	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

// Update re-verifies ownership at mutation time: the owner filter and the
// field update happen in one statement, so there is no check/use gap.
func (r *NoteRepository) Update(ctx context.Context, ownerID, noteID string, title, content *string) (*entity.Note, error) {
	n := &entity.Note{}

	row := r.pool.QueryRow(ctx, `
		UPDATE notes
		SET title = COALESCE($3, title),
		    content = COALESCE($4, content),
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, title, content, created_at, updated_at
	`, noteID, ownerID, title, content)

	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *NoteRepository) Delete(ctx context.Context, ownerID, noteID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM notes
		WHERE id = $1 AND owner_id = $2
	`, noteID, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) Stats(ctx context.Context, ownerID string) (repository.NoteStats, error) {
	var s repository.NoteStats

	row := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE created_at >= now() - interval '7 days')
		FROM notes
		WHERE owner_id = $1
	`, ownerID)

	if err := row.Scan(&s.Total, &s.Recent); err != nil {
		return repository.NoteStats{}, err
	}
	return s, nil
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
