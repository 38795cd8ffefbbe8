package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"notesapi/internal/domain/entity"
	"notesapi/internal/domain/repository"
	"notesapi/pkg/helpers"
)

// fakeUserRepo is an in-memory UserRepository mirroring the store's
// uniqueness and not-found semantics.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]entity.User
	byEmail map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]entity.User{}, byEmail: map[string]string{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	f.byID[u.ID] = *u
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := f.byID[id]
	return &cp, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		delete(f.byEmail, u.Email)
		delete(f.byID, id)
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthService(repo repository.UserRepository) *AuthService {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, jwt, nil, quietLogger(), nil)
}

func TestSignUp_NormalizesEmailAndHashesPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	u, err := svc.SignUp(context.Background(), "  Ada Lovelace ", " Ada@Example.COM ", "secret-pass-1")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, "Ada Lovelace", u.Name)
	require.NotEmpty(t, u.ID)
	require.NotEqual(t, "secret-pass-1", u.Password)
	require.True(t, helpers.CompareHashAndPassword(u.Password, "secret-pass-1"))
}

func TestSignUp_DuplicateEmailCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "First", "dup@example.com", "password1")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "Second", "DUP@EXAMPLE.COM", "password2")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn_Success(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correcthorse")
	require.NoError(t, err)

	u, token, exp, err := svc.SignIn(ctx, "Ada@Example.com", "correcthorse")
	require.NoError(t, err)
	require.Equal(t, created.ID, u.ID)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.UserID)
}

func TestSignIn_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correcthorse")
	require.NoError(t, err)

	_, _, _, errWrongPw := svc.SignIn(ctx, "ada@example.com", "wronghorse")
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)

	_, _, _, errNoUser := svc.SignIn(ctx, "nobody@example.com", "correcthorse")
	require.ErrorIs(t, errNoUser, ErrInvalidCredentials)

	require.Equal(t, errWrongPw, errNoUser)
}

func TestResolve_ValidToken(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correcthorse")
	require.NoError(t, err)
	_, token, _, err := svc.SignIn(ctx, "ada@example.com", "correcthorse")
	require.NoError(t, err)

	u, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, created.ID, u.ID)
	require.Equal(t, "ada@example.com", u.Email)
}

func TestResolve_DeletedSubject(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correcthorse")
	require.NoError(t, err)
	_, token, _, err := svc.SignIn(ctx, "ada@example.com", "correcthorse")
	require.NoError(t, err)

	repo.delete(created.ID)

	_, err = svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolve_ExpiredAndGarbageTokens(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correcthorse")
	require.NoError(t, err)

	expired, _, err := svc.JWT.GenerateWithTTL(created.ID, -1*time.Second)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, expired)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Resolve(ctx, "garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)

	foreign, _, err := helpers.NewJWTManager("other-secret", time.Hour).Generate(created.ID)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, foreign)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefresh_IssuesUsableToken(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "Ada", "ada@example.com", "correcthorse")
	require.NoError(t, err)

	token, exp, err := svc.Refresh(created)
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	u, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, created.ID, u.ID)
}
