package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"notesapi/internal/domain/entity"
	"notesapi/internal/domain/repository"
)

// fakeNoteRepo is an in-memory NoteRepository. It reproduces the store's
// owner scoping, substring filtering, update ordering, and stats window.
type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[string]entity.Note
	base  time.Time
	seq   int
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: map[string]entity.Note{}, base: time.Now().UTC()}
}

// tick returns strictly increasing timestamps so updated_at ordering is
// deterministic even when tests run faster than clock resolution.
func (f *fakeNoteRepo) tick() time.Time {
	f.seq++
	return f.base.Add(time.Duration(f.seq) * time.Millisecond)
}

func (f *fakeNoteRepo) Create(_ context.Context, n *entity.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts := f.tick()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = ts
	}
	n.UpdatedAt = ts
	f.notes[n.ID] = *n
	return nil
}

func (f *fakeNoteRepo) ListByOwner(_ context.Context, ownerID, query string, limit, offset int) ([]entity.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []entity.Note
	for _, n := range f.notes {
		if n.OwnerID != ownerID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Content), q) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if offset >= len(out) {
		return []entity.Note{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNoteRepo) GetByID(_ context.Context, ownerID, noteID string) (*entity.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := n
	return &cp, nil
}

func (f *fakeNoteRepo) Update(_ context.Context, ownerID, noteID string, title, content *string) (*entity.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	if title != nil {
		n.Title = *title
	}
	if content != nil {
		n.Content = *content
	}
	n.UpdatedAt = f.tick()
	f.notes[noteID] = n
	cp := n
	return &cp, nil
}

func (f *fakeNoteRepo) Delete(_ context.Context, ownerID, noteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.notes, noteID)
	return nil
}

func (f *fakeNoteRepo) Stats(_ context.Context, ownerID string) (repository.NoteStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
	var s repository.NoteStats
	for _, n := range f.notes {
		if n.OwnerID != ownerID {
			continue
		}
		s.Total++
		if n.CreatedAt.After(cutoff) {
			s.Recent++
		}
	}
	return s, nil
}

// seed inserts a note directly, bypassing the service, with an explicit
// creation time.
func (f *fakeNoteRepo) seed(ownerID, title string, createdAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("seeded-%d", f.seq)
	f.notes[id] = entity.Note{ID: id, OwnerID: ownerID, Title: title, Content: "", CreatedAt: createdAt, UpdatedAt: createdAt}
}

func newNoteService(repo repository.NoteRepository) *NoteService {
	return NewNoteService(repo, nil, quietLogger(), nil, nil, "", 100, 20)
}

func TestNoteList_NormalizesPageAndLimit(t *testing.T) {
	t.Parallel()

	svc := newNoteService(newFakeNoteRepo())
	ctx := context.Background()

	_, page, limit, err := svc.List(ctx, "owner", "", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, page)
	require.Equal(t, 20, limit)

	_, page, limit, err = svc.List(ctx, "owner", "", -3, 500)
	require.NoError(t, err)
	require.Equal(t, 1, page)
	require.Equal(t, 100, limit)
}

func TestNoteList_PaginationAndOrdering(t *testing.T) {
	t.Parallel()

	svc := newNoteService(newFakeNoteRepo())
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		_, err := svc.Create(ctx, "owner", fmt.Sprintf("note %02d", i), "body")
		require.NoError(t, err)
	}

	titles := func(notes []entity.Note) []string {
		out := make([]string, 0, len(notes))
		for _, n := range notes {
			out = append(out, n.Title)
		}
		return out
	}

	page1, _, _, err := svc.List(ctx, "owner", "", 1, 5)
	require.NoError(t, err)
	require.Equal(t, []string{"note 12", "note 11", "note 10", "note 09", "note 08"}, titles(page1))

	page2, _, _, err := svc.List(ctx, "owner", "", 2, 5)
	require.NoError(t, err)
	require.Equal(t, []string{"note 07", "note 06", "note 05", "note 04", "note 03"}, titles(page2))

	page3, _, _, err := svc.List(ctx, "owner", "", 3, 5)
	require.NoError(t, err)
	require.Equal(t, []string{"note 02", "note 01"}, titles(page3))

	page4, _, _, err := svc.List(ctx, "owner", "", 4, 5)
	require.NoError(t, err)
	require.Empty(t, page4)
}

func TestNoteList_SubstringSearch(t *testing.T) {
	t.Parallel()

	svc := newNoteService(newFakeNoteRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner", "Project Plan", "milestones for q4")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner", "Groceries", "remember the project deadline too")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner", "Reading List", "novels")
	require.NoError(t, err)

	notes, _, _, err := svc.List(ctx, "owner", "PROJ", 1, 10)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	notes, _, _, err = svc.List(ctx, "owner", "nomatch", 1, 10)
	require.NoError(t, err)
	require.Empty(t, notes)
}

func TestNoteGet_ForeignOwnerLooksAbsent(t *testing.T) {
	t.Parallel()

	svc := newNoteService(newFakeNoteRepo())
	ctx := context.Background()

	n, err := svc.Create(ctx, "alice", "private", "alice only")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", n.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)

	_, err = svc.Update(ctx, "bob", n.ID, UpdateNoteInput{Title: strPtr("stolen")})
	require.ErrorIs(t, err, ErrNoteNotFound)

	err = svc.Delete(ctx, "bob", n.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)

	got, err := svc.Get(ctx, "alice", n.ID)
	require.NoError(t, err)
	require.Equal(t, "private", got.Title)
}

func TestNoteUpdate_PartialFields(t *testing.T) {
	t.Parallel()

	svc := newNoteService(newFakeNoteRepo())
	ctx := context.Background()

	n, err := svc.Create(ctx, "owner", "old title", "old content")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "owner", n.ID, UpdateNoteInput{Title: strPtr("new title")})
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)
	require.Equal(t, "old content", updated.Content)
	require.True(t, updated.UpdatedAt.After(n.UpdatedAt))

	updated, err = svc.Update(ctx, "owner", n.ID, UpdateNoteInput{Content: strPtr("new content")})
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)
	require.Equal(t, "new content", updated.Content)
}

func TestNoteDelete_ThenGone(t *testing.T) {
	t.Parallel()

	svc := newNoteService(newFakeNoteRepo())
	ctx := context.Background()

	n, err := svc.Create(ctx, "owner", "doomed", "x")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "owner", n.ID))

	_, err = svc.Get(ctx, "owner", n.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)

	err = svc.Delete(ctx, "owner", n.ID)
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteStats_RecentWindow(t *testing.T) {
	t.Parallel()

	repo := newFakeNoteRepo()
	svc := newNoteService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner", "fresh 1", "x")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner", "fresh 2", "x")
	require.NoError(t, err)
	repo.seed("owner", "ancient", time.Now().UTC().Add(-30*24*time.Hour))
	repo.seed("stranger", "not mine", time.Now().UTC())

	stats, err := svc.Stats(ctx, "owner")
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Equal(t, int64(2), stats.Recent)
}

func TestNoteSearch_FallsBackWithoutIndex(t *testing.T) {
	t.Parallel()

	svc := newNoteService(newFakeNoteRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner", "Project Plan", "milestones")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "owner", "Groceries", "milk")
	require.NoError(t, err)

	hits, err := svc.Search(ctx, "owner", "project", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "Project Plan", hits[0]["title"])
}

func strPtr(s string) *string { return &s }
