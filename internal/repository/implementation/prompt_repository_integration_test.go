package implementation

import (
	"context"
	"os"
	"sync"
	"testing"

	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/repository/contract"
	"prompt-library-be/internal/repository/specification"
	"prompt-library-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB connects to TEST_DATABASE_URL and starts from empty tables.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Exec(
		"TRUNCATE prompts, ai_tools, categories, prompt_types, sources RESTART IDENTITY CASCADE").Error)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func seedTools(t *testing.T, repo contract.AiToolRepository, names ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(names))
	for _, n := range names {
		tool := &entity.AiTool{Name: n}
		require.NoError(t, repo.Create(context.Background(), tool))
		ids = append(ids, tool.Id)
	}
	return ids
}

func TestListFiltersAndSortsAgainstPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	prompts := NewPromptRepository(db)

	toolIDs := seedTools(t, NewAiToolRepository(db), "ChatGPT", "Midjourney", "Claude")
	require.Equal(t, uint(3), toolIDs[2])

	seed := []entity.Prompt{
		{Title: "a", PromptText: "x", AiToolId: uintPtr(3), Rating: intPtr(4)},
		{Title: "b", PromptText: "x", AiToolId: uintPtr(3), Rating: intPtr(5)},
		{Title: "c", PromptText: "x", AiToolId: uintPtr(3), Rating: intPtr(2)},
		{Title: "d", PromptText: "x", AiToolId: uintPtr(1), Rating: intPtr(5)},
		{Title: "e", PromptText: "x", AiToolId: uintPtr(3)},
	}
	for i := range seed {
		require.NoError(t, prompts.Create(ctx, &seed[i]))
	}

	filter, err := specification.ParsePromptFilter(map[string]string{
		"tool": "3", "rating": "4", "sort": "rating_desc",
	})
	require.NoError(t, err)

	rows, err := prompts.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 5, *rows[0].Rating)
	assert.Equal(t, 4, *rows[1].Rating)
	assert.Equal(t, "Claude", *rows[0].AiToolName)

	// Wildcards in search are literal.
	rows, err = prompts.List(ctx, specification.PromptFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFavoriteViewAndDetailAgainstPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	prompts := NewPromptRepository(db)

	parent := &entity.Prompt{Title: "parent", PromptText: "x", Tags: []string{"a", "b"}}
	require.NoError(t, prompts.Create(ctx, parent))
	child := &entity.Prompt{Title: "child", PromptText: "x", ParentPromptId: &parent.Id}
	require.NoError(t, prompts.Create(ctx, child))

	on, found, err := prompts.ToggleFavorite(ctx, parent.Id)
	require.NoError(t, err)
	require.True(t, found)
	off, _, err := prompts.ToggleFavorite(ctx, parent.Id)
	require.NoError(t, err)
	assert.True(t, on)
	assert.False(t, off)

	_, found, err = prompts.ToggleFavorite(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, found)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := prompts.IncrementUsage(ctx, parent.Id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	detail, err := prompts.FindDetail(ctx, child.Id)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "parent", *detail.ParentPromptTitle)

	stored, err := prompts.FindOne(ctx, specification.ByID{ID: parent.Id})
	require.NoError(t, err)
	assert.Equal(t, 20, stored.UsageCount)
	assert.Equal(t, []string{"a", "b"}, stored.Tags)

	chain, err := prompts.ParentChain(ctx, child.Id, 32)
	require.NoError(t, err)
	assert.Equal(t, []uint{parent.Id}, chain)

	missing, err := prompts.FindDetail(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLookupConstraintsAgainstPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	tools := NewAiToolRepository(db)
	prompts := NewPromptRepository(db)

	ids := seedTools(t, tools, "ChatGPT")
	err := tools.Create(ctx, &entity.AiTool{Name: "ChatGPT"})
	assert.ErrorIs(t, err, contract.ErrDuplicateKey)

	p := &entity.Prompt{Title: "p", PromptText: "x", AiToolId: &ids[0]}
	require.NoError(t, prompts.Create(ctx, p))

	// Deleting a tool clears the reference instead of deleting the prompt.
	found, err := tools.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, found)

	stored, err := prompts.FindOne(ctx, specification.ByID{ID: p.Id})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.AiToolId)

	err = prompts.Create(ctx, &entity.Prompt{Title: "q", PromptText: "x", CategoryId: uintPtr(404)})
	assert.ErrorIs(t, err, contract.ErrForeignKey)

	buckets, err := prompts.CountByTool(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "Unassigned", buckets[0].Label)
}
