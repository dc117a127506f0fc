package cart

import (
	"context"
	"testing"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartLine{}))
	return &Store{DB: db}
}

func TestStore_AddCreatesLine(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	l := models.CartLine{UserID: "u1", ProductID: 7, Name: "iPhone 14", UnitPrice: dec("999")}
	require.NoError(t, s.Add(ctx, &l))

	lines, err := s.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint(1), lines[0].Quantity)
	assert.Equal(t, 7, lines[0].ProductID)
}

func TestStore_AddMergesSameProduct(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u1", ProductID: 7, UnitPrice: dec("999")}))
	require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u1", ProductID: 7, UnitPrice: dec("999")}))

	lines, err := s.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].Quantity)
}

func TestStore_AddRequiresProductID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := s.Add(context.Background(), &models.CartLine{UserID: "u1"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestStore_DecrementLowersQuantity(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u1", ProductID: 7, Quantity: 3, UnitPrice: dec("100")}))

	removed, line, err := s.Decrement(ctx, "u1", 7)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, uint(2), line.Quantity)
}

func TestStore_DecrementAtOneRemovesLine(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u1", ProductID: 7, UnitPrice: dec("100")}))

	removed, _, err := s.Decrement(ctx, "u1", 7)
	require.NoError(t, err)
	assert.True(t, removed)

	lines, err := s.Lines(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStore_DecrementMissingLine(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, _, err := s.Decrement(context.Background(), "u1", 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveAndClear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u1", ProductID: 1, UnitPrice: dec("10")}))
	require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u1", ProductID: 2, UnitPrice: dec("20")}))
	require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u2", ProductID: 1, UnitPrice: dec("10")}))

	require.NoError(t, s.Remove(ctx, "u1", 1))
	lines, err := s.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].ProductID)

	require.NoError(t, s.Clear(ctx, "u1"))
	lines, err = s.Lines(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	// another user's cart is untouched
	other, err := s.Lines(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestStore_LinesOrderedByInsertion(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []int{5, 3, 9} {
		require.NoError(t, s.Add(ctx, &models.CartLine{UserID: "u1", ProductID: id, UnitPrice: dec("10")}))
	}

	lines, err := s.Lines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []int{5, 3, 9}, []int{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
}
