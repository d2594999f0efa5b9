package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelrisk_intake/pkg/models"
)

func TestSessionRepo_FileRoundTrip(t *testing.T) {
	repo := NewSessionRepo(nil, t.TempDir())
	repo.now = func() time.Time { return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	require.NoError(t, repo.EnsureSchema(ctx))
	assert.Equal(t, "file", repo.Backend())

	saved, err := repo.Save(ctx, &models.Session{
		BankName:   "First Bank",
		IntakeData: models.IntakeData{"general_info": {"model_name": "Retail PD Scorecard"}},
	})
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	loaded, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "First Bank", loaded.BankName)
	assert.Equal(t, "Retail PD Scorecard", loaded.IntakeData.String("general_info", "model_name"))
	assert.Empty(t, loaded.Documents)

	repo.now = func() time.Time { return time.Date(2025, 2, 2, 12, 0, 0, 0, time.UTC) }
	loaded.BankName = "Second Bank"
	updated, err := repo.Save(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestSessionRepo_NotFound(t *testing.T) {
	repo := NewSessionRepo(nil, t.TempDir())
	ctx := context.Background()

	_, err := repo.Get(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = repo.Get(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepo_RejectsInvalidID(t *testing.T) {
	repo := NewSessionRepo(nil, t.TempDir())
	_, err := repo.Save(context.Background(), &models.Session{ID: "not-a-uuid"})
	assert.Error(t, err)
}

func TestInitDB_EmptyURL(t *testing.T) {
	require.Error(t, InitDB(context.Background(), ""))
	assert.Nil(t, GetPool())
}

func TestInitDB_BadURL(t *testing.T) {
	require.Error(t, InitDB(context.Background(), "postgres://%zz"))
	assert.Nil(t, GetPool())
}

func TestSessionRepo_SaveRejectsNonUUID(t *testing.T) {
	repo := NewSessionRepo(nil, t.TempDir())
	_, err := repo.Save(context.Background(), &models.Session{ID: "../escape"})
	assert.ErrorIs(t, err, ErrInvalidSessionID)
}
