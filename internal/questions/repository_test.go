package questions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleList = `[
  {"id": 3, "question": "What is a channel?", "answer": "A typed conduit.", "keyword": "go", "frequency": 4, "top": false},
  {"id": 1, "question": "What is an index?", "answer": "A lookup structure.", "keyword": "database", "frequency": 9, "top": true},
  {"id": 2, "question": "What is a goroutine?", "answer": "A lightweight thread.", "keyword": "go", "frequency": 7, "top": true}
]`

func writeList(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRepository_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "InterviewQuestionList.json")
	writeList(t, path, sampleList)
	repo := NewRepository(path, zap.NewNop())

	testCases := []struct {
		name    string
		filter  Filter
		wantIDs []int
	}{
		{name: "all in file order", filter: Filter{}, wantIDs: []int{3, 1, 2}},
		{name: "keyword", filter: Filter{Keyword: "Go"}, wantIDs: []int{3, 2}},
		{name: "top only", filter: Filter{TopOnly: true}, wantIDs: []int{1, 2}},
		{name: "keyword and top", filter: Filter{Keyword: "go", TopOnly: true}, wantIDs: []int{2}},
		{name: "unknown keyword", filter: Filter{Keyword: "rust"}, wantIDs: []int{}},
		{name: "sorted", filter: Filter{Sorted: true}, wantIDs: []int{1, 2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qs, err := repo.List(context.Background(), tc.filter)
			require.NoError(t, err)
			ids := make([]int, 0, len(qs))
			for _, q := range qs {
				ids = append(ids, q.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestRepository_List_DoesNotLeakCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	writeList(t, path, sampleList)
	repo := NewRepository(path, zap.NewNop())

	qs, err := repo.List(context.Background(), Filter{Sorted: true})
	require.NoError(t, err)
	qs[0].Question = "mutated"

	again, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, "What is a channel?", again[0].Question)
	assert.Equal(t, "What is an index?", again[1].Question)
}

func TestRepository_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	writeList(t, path, `[{"id": 1, "question": "q1", "keyword": "go"}]`)
	repo := NewRepository(path, zap.NewNop())

	qs, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, qs, 1)

	writeList(t, path, `[{"id": 1, "question": "q1", "keyword": "go"}, {"id": 2, "question": "q2", "keyword": "sql"}]`)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	qs, err = repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	keywords, err := repo.Keywords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, keywords)
}

func TestRepository_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewRepository(filepath.Join(dir, "missing.json"), zap.NewNop()).List(context.Background(), Filter{})
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	writeList(t, broken, `{"id": 1`)
	_, err = NewRepository(broken, zap.NewNop()).List(context.Background(), Filter{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	good := filepath.Join(dir, "good.json")
	writeList(t, good, sampleList)
	_, err = NewRepository(good, zap.NewNop()).List(ctx, Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepository_Keywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	writeList(t, path, sampleList)

	keywords, err := NewRepository(path, zap.NewNop()).Keywords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"database", "go"}, keywords)
}
