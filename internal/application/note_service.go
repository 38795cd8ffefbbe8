package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"notesapi/internal/domain/entity"
	"notesapi/internal/domain/repository"
	"notesapi/pkg/helpers"
)

var ErrNoteNotFound = errors.New("note not found")

const statsCacheTTL = 30 * time.Second

// NoteService owns note operations. Every call is scoped by the owner id the
// caller was authenticated as; the repository enforces the (id, owner_id)
// filter atomically. Redis, ES, and Events are optional collaborators.
type NoteService struct {
	Repo         repository.NoteRepository
	Redis        *redis.Client
	Logger       *logrus.Logger
	Events       *helpers.RabbitPublisher
	ES           *elasticsearch.Client
	ESNotesIndex string
	MaxLimit     int
	DefaultLimit int
}

func NewNoteService(repo repository.NoteRepository, rdb *redis.Client, logger *logrus.Logger, events *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string, maxLimit, defaultLimit int) *NoteService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = 20
	}
	return &NoteService{
		Repo:         repo,
		Redis:        rdb,
		Logger:       logger,
		Events:       events,
		ES:           es,
		ESNotesIndex: esIndex,
		MaxLimit:     maxLimit,
		DefaultLimit: defaultLimit,
	}
}

func statsKey(ownerID string) string {
	return "notes:stats:" + ownerID
}

func (s *NoteService) Create(ctx context.Context, ownerID, title, content string) (*entity.Note, error) {
	n := &entity.Note{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Title:   title,
		Content: content,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, ownerID)
	s.indexNote(ctx, n)
	publishEvent(ctx, s.Events, s.Logger, "note.created", ownerID, n.ID)
	return n, nil
}

// List returns one page of the owner's notes, most recently updated first.
// Page and limit are normalized here: page floors at 1, limit falls back to
// the default and is capped at the configured maximum.
func (s *NoteService) List(ctx context.Context, ownerID, query string, page, limit int) ([]entity.Note, int, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	offset := (page - 1) * limit
	notes, err := s.Repo.ListByOwner(ctx, ownerID, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return nil, page, limit, err
	}
	return notes, page, limit, nil
}

func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*entity.Note, error) {
	n, err := s.Repo.GetByID(ctx, ownerID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return n, nil
}

// UpdateNoteInput carries the optional fields of a partial update.
type UpdateNoteInput struct {
	Title   *string
	Content *string
}

func (s *NoteService) Update(ctx context.Context, ownerID, noteID string, in UpdateNoteInput) (*entity.Note, error) {
	n, err := s.Repo.Update(ctx, ownerID, noteID, in.Title, in.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	s.indexNote(ctx, n)
	publishEvent(ctx, s.Events, s.Logger, "note.updated", ownerID, noteID)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	if err := s.Repo.Delete(ctx, ownerID, noteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	s.invalidateStats(ctx, ownerID)
	s.removeFromIndex(ctx, noteID)
	publishEvent(ctx, s.Events, s.Logger, "note.deleted", ownerID, noteID)
	return nil
}

func (s *NoteService) Stats(ctx context.Context, ownerID string) (repository.NoteStats, error) {
	if s.Redis != nil {
		var cached repository.NoteStats
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsKey(ownerID), &cached); err == nil && ok {
			return cached, nil
		}
	}
	stats, err := s.Repo.Stats(ctx, ownerID)
	if err != nil {
		return repository.NoteStats{}, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsKey(ownerID), stats, statsCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *NoteService) invalidateStats(ctx context.Context, ownerID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, statsKey(ownerID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("stats cache invalidation failed")
	}
}

// indexNote mirrors the note into Elasticsearch, best effort. The SQL store
// stays authoritative; the index only serves ranked search.
func (s *NoteService) indexNote(ctx context.Context, n *entity.Note) {
	if s.ES == nil || s.ESNotesIndex == "" {
		return
	}
	doc := map[string]any{
		"note_id":    n.ID,
		"owner_id":   n.OwnerID,
		"title":      n.Title,
		"content":    n.Content,
		"created_at": n.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": n.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESNotesIndex, DocumentID: n.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("note_id", n.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("note_id", n.ID).Warn("es index response error")
	}
}

func (s *NoteService) removeFromIndex(ctx context.Context, noteID string) {
	if s.ES == nil || s.ESNotesIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESNotesIndex, DocumentID: noteID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("note_id", noteID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a ranked full-text search over the owner's notes via
// Elasticsearch. The owner term filter is part of the query itself, so the
// index can never leak another user's notes. Without ES it falls back to the
// SQL substring path.
func (s *NoteService) Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error) {
	if size <= 0 || size > s.MaxLimit {
		size = s.DefaultLimit
	}
	if s.ES == nil || s.ESNotesIndex == "" {
		notes, _, _, err := s.List(ctx, ownerID, q, 1, size)
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(notes))
		for _, n := range notes {
			out = append(out, map[string]any{
				"note_id":    n.ID,
				"title":      n.Title,
				"content":    n.Content,
				"created_at": n.CreatedAt.UTC().Format(time.RFC3339Nano),
				"updated_at": n.UpdatedAt.UTC().Format(time.RFC3339Nano),
			})
		}
		return out, nil
	}

	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "content"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner_id": ownerID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESNotesIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		delete(h.Source, "owner_id")
		out = append(out, h.Source)
	}
	return out, nil
}
