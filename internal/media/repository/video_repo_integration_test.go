//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"media_upload_service/internal/media/domain"
	"media_upload_service/pkg/database"
	"media_upload_service/pkg/logger"
	testtool "media_upload_service/pkg/test_tool"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupVideoRepo(t *testing.T) VideoRepo {
	t.Helper()
	logger.SetNewNop()
	ctx := context.Background()

	container, host, port, err := testtool.SetupContainer(ctx, testtool.PostgresRequest("media", "media", "media"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	db, err := database.NewPGConnection(database.Connection{
		ConnectStr:    fmt.Sprintf("host=%s port=%s user=media password=media dbname=media sslmode=disable", host, port),
		RetryCount:    5,
		RetryInterval: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.ClosePG(db) })

	repo := NewVideoRepo(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func TestVideoRepoIntegration(t *testing.T) {
	repo := setupVideoRepo(t)
	ctx := context.Background()

	t.Run("empty store lists an empty slice", func(t *testing.T) {
		videos, err := repo.ListRecent(ctx)
		require.NoError(t, err)
		assert.NotNil(t, videos)
		assert.Empty(t, videos)
	})

	now := time.Now().UTC()
	older := &domain.Video{ID: uuid.NewString(), Title: "Older", PublicID: "video-uploads/older", OriginalSize: "2048", CompressedSize: "1024", Duration: 3.5, CreatedAt: now.Add(-time.Hour)}
	newer := &domain.Video{ID: uuid.NewString(), Title: "Newer", PublicID: "video-uploads/newer", OriginalSize: "4096", CompressedSize: "1024", Duration: 12, CreatedAt: now}

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	t.Run("newest first", func(t *testing.T) {
		videos, err := repo.ListRecent(ctx)
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, newer.ID, videos[0].ID)
		assert.Equal(t, older.ID, videos[1].ID)
		assert.Equal(t, "", videos[0].Description)
		assert.Equal(t, 12.0, videos[0].Duration)
	})

	t.Run("public id is unique", func(t *testing.T) {
		dup := &domain.Video{ID: uuid.NewString(), PublicID: "video-uploads/newer"}
		assert.Error(t, repo.Create(ctx, dup))
	})
}
