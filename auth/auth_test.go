package auth

import (
	"context"
	"testing"
	"time"

	"geomarket/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *Service {
	return NewService(storage.NewMemoryStore(), zap.NewNop(), []byte("test-secret"), time.Hour)
}

func register(t *testing.T, svc *Service, email string) *Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), RegisterInput{
		Username: "rocky",
		Email:    email,
		Password: "pebbles",
	})
	require.NoError(t, err)
	return sess
}

func TestRegister(t *testing.T) {
	svc := newTestService()
	sess := register(t, svc, "Rocky@Example.com ")

	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "rocky@example.com", sess.User.Email)
	assert.NotEqual(t, "pebbles", sess.User.Password)
	assert.Nil(t, sess.User.ProfilePicture)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService()
	register(t, svc, "rocky@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "other",
		Email:    "ROCKY@example.com",
		Password: "x",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	_, err := newTestService().Register(context.Background(), RegisterInput{Username: "x", Email: " "})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	registered := register(t, svc, "rocky@example.com")

	sess, err := svc.Login(ctx, "rocky@example.com", "pebbles")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, sess.User.ID)
	assert.NotEqual(t, registered.ID, sess.ID)

	_, err = svc.Login(ctx, "rocky@example.com", "boulders")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "pebbles")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	sess := register(t, svc, "rocky@example.com")

	got, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.User.ID, got.User.ID)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	issuer := NewService(store, zap.NewNop(), []byte("one"), time.Hour)
	verifier := NewService(store, zap.NewNop(), []byte("two"), time.Hour)

	sess := register(t, issuer, "rocky@example.com")
	_, err := verifier.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_ClearsSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	sess := register(t, svc, "rocky@example.com")

	require.NoError(t, svc.Logout(ctx, sess.ID))
	_, err := svc.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// second logout is a no-op
	assert.NoError(t, svc.Logout(ctx, sess.ID))
}

func TestAuthenticate_Expired(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	start := time.Now()
	svc.now = func() time.Time { return start }
	sess := register(t, svc, "rocky@example.com")

	svc.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err := svc.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	sess := register(t, svc, "rocky@example.com")
	pic := "data:image/png;base64,AAAA"

	updated, err := svc.Update(ctx, sess.User.ID, UpdateInput{Username: "rocky2", Email: "new@example.com", ProfilePicture: &pic})
	require.NoError(t, err)
	assert.Equal(t, "rocky2", updated.Username)
	assert.Equal(t, "new@example.com", updated.Email)
	require.NotNil(t, updated.ProfilePicture)

	// picture survives an update that does not replace it
	updated, err = svc.Update(ctx, sess.User.ID, UpdateInput{Username: "rocky3", Email: "new@example.com"})
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePicture)
	assert.Equal(t, pic, *updated.ProfilePicture)

	// authenticated sessions see the new profile
	got, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "rocky3", got.User.Username)

	// password still works after profile changes
	_, err = svc.Login(ctx, "new@example.com", "pebbles")
	assert.NoError(t, err)
}

func TestUpdate_EmailConflicts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	first := register(t, svc, "first@example.com")
	register(t, svc, "second@example.com")

	_, err := svc.Update(ctx, first.User.ID, UpdateInput{Username: "x", Email: "second@example.com"})
	assert.ErrorIs(t, err, ErrEmailInUse)

	// keeping your own email is fine
	_, err = svc.Update(ctx, first.User.ID, UpdateInput{Username: "x", Email: "first@example.com"})
	assert.NoError(t, err)

	_, err = svc.Update(ctx, "missing", UpdateInput{Username: "x", Email: "third@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
