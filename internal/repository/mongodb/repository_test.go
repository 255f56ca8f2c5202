package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockroom/internal/domain/models"
)

var (
	_ Repository = (*MongoDBRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	assert.Equal(t, 0, repo.Len())

	require.NoError(t, repo.SaveStockReport(ctx, models.StockReport{ID: "r1"}))
	require.NoError(t, repo.SaveStockReport(ctx, models.StockReport{ID: "r2"}))

	assert.Equal(t, 2, repo.Len())
}
