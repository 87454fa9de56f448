package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/flow"
	"github.com/spec-kit/coaching-service/internal/llm"
)

func TestFlowSessionRepository(t *testing.T) {
	repo := NewFlowSessionRepository(time.Minute)
	s := flow.NewSession("s1", flow.NewController(), time.Now())
	repo.Save(s)

	got, ok := repo.Get("s1")
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, repo.Count())

	var evicted string
	repo.OnEvicted(func(s *flow.Session) { evicted = s.ID })
	repo.Delete("s1")
	_, ok = repo.Get("s1")
	assert.False(t, ok)
	assert.Equal(t, "s1", evicted)
}

func TestFlowSessionRepositoryExpiry(t *testing.T) {
	repo := NewFlowSessionRepository(20 * time.Millisecond)
	repo.Save(flow.NewSession("s1", flow.NewController(), time.Now()))
	time.Sleep(40 * time.Millisecond)
	_, ok := repo.Get("s1")
	assert.False(t, ok)
}

func TestFlowSessionRepositoryGetRefreshesTTL(t *testing.T) {
	repo := NewFlowSessionRepository(60 * time.Millisecond)
	repo.Save(flow.NewSession("s1", flow.NewController(), time.Now()))
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		_, ok := repo.Get("s1")
		require.True(t, ok)
	}
}

func TestFlowSessionRepositoryDeleteWinsOverConcurrentGet(t *testing.T) {
	repo := NewFlowSessionRepository(time.Minute)
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("s%d", i)
		repo.Save(flow.NewSession(id, flow.NewController(), time.Now()))

		var wg sync.WaitGroup
		for r := 0; r < 4; r++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for n := 0; n < 20; n++ {
					repo.Get(id)
				}
			}()
		}
		repo.Delete(id)
		wg.Wait()

		_, ok := repo.Get(id)
		require.False(t, ok, "session %s came back after Delete", id)
	}
	assert.Equal(t, 0, repo.Count())
}

func TestChatHistoryRepository(t *testing.T) {
	repo := NewChatHistoryRepository(time.Minute)
	assert.Nil(t, repo.History("s1", "advisor"))

	repo.Append("s1", "advisor", llm.Message{Role: llm.RoleUser, Content: "hi"})
	repo.Append("s1", "advisor", llm.Message{Role: llm.RoleAssistant, Content: "hello"})
	repo.Append("s1", "interview", llm.Message{Role: llm.RoleUser, Content: "ready"})
	repo.Append("s2", "advisor", llm.Message{Role: llm.RoleUser, Content: "other"})

	history := repo.History("s1", "advisor")
	require.Len(t, history, 2)
	history[0].Content = "mutated"
	assert.Equal(t, "hi", repo.History("s1", "advisor")[0].Content)

	repo.Reset("s1", "advisor")
	assert.Nil(t, repo.History("s1", "advisor"))
	assert.Len(t, repo.History("s1", "interview"), 1)

	repo.ResetSession("s1")
	assert.Nil(t, repo.History("s1", "interview"))
	assert.Len(t, repo.History("s2", "advisor"), 1)
}
