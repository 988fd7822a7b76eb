package external

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func newMockCacheClient() (*CacheClient, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &CacheClient{redis: db, defaultTTL: 15 * time.Minute}, mock
}

func TestCacheClient_Get(t *testing.T) {
	cache, mock := newMockCacheClient()
	ctx := context.Background()

	t.Run("cache hit returns the analysis result", func(t *testing.T) {
		result := domain.AnalysisResult{AnalysisID: "a1", OverallScore: 75}
		cached := cachedAnalysisResult{Data: result, CachedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
		payload, err := json.Marshal(cached)
		require.NoError(t, err)

		mock.ExpectGet("analysis:result:a1").SetVal(string(payload))

		got, found, err := cache.Get(ctx, "a1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "a1", got.AnalysisID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss reports not found without error", func(t *testing.T) {
		mock.ExpectGet("analysis:result:missing").RedisNil()

		_, found, err := cache.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired entry is evicted and reported as miss", func(t *testing.T) {
		cached := cachedAnalysisResult{
			Data:      domain.AnalysisResult{AnalysisID: "a2"},
			CachedAt:  time.Now().Add(-2 * time.Hour),
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		payload, err := json.Marshal(cached)
		require.NoError(t, err)

		mock.ExpectGet("analysis:result:a2").SetVal(string(payload))
		mock.ExpectDel("analysis:result:a2").SetVal(1)

		_, found, err := cache.Get(ctx, "a2")
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupted entry is evicted and reported as miss", func(t *testing.T) {
		mock.ExpectGet("analysis:result:a3").SetVal("not json")
		mock.ExpectDel("analysis:result:a3").SetVal(1)

		_, found, err := cache.Get(ctx, "a3")
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCacheClient_Set(t *testing.T) {
	cache, mock := newMockCacheClient()
	ctx := context.Background()

	mock.Regexp().ExpectSet("analysis:result:a1", `.*`, cache.defaultTTL).SetVal("OK")

	err := cache.Set(ctx, domain.AnalysisResult{AnalysisID: "a1", OverallScore: 80})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
