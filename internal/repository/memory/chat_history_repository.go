package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/spec-kit/coaching-service/internal/llm"
)

// ChatHistoryRepository holds advisor conversations keyed by session and channel.
type ChatHistoryRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewChatHistoryRepository builds the store with an idle expiry of ttl.
func NewChatHistoryRepository(ttl time.Duration) *ChatHistoryRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ChatHistoryRepository{cache: cache.New(ttl, ttl/4)}
}

func chatKey(sessionID, channel string) string {
	return sessionID + "|" + channel
}

// History returns a copy of the conversation.
func (r *ChatHistoryRepository) History(sessionID, channel string) []llm.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, found := r.cache.Get(chatKey(sessionID, channel))
	if !found {
		return nil
	}
	msgs := x.([]llm.Message)
	return append([]llm.Message(nil), msgs...)
}

// Append adds turns to the conversation.
func (r *ChatHistoryRepository) Append(sessionID, channel string, msgs ...llm.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := chatKey(sessionID, channel)
	var history []llm.Message
	if x, found := r.cache.Get(key); found {
		history = x.([]llm.Message)
	}
	history = append(append([]llm.Message(nil), history...), msgs...)
	r.cache.Set(key, history, cache.DefaultExpiration)
}

// Reset forgets one conversation.
func (r *ChatHistoryRepository) Reset(sessionID, channel string) {
	r.cache.Delete(chatKey(sessionID, channel))
}

// ResetSession forgets every conversation of the session.
func (r *ChatHistoryRepository) ResetSession(sessionID string) {
	prefix := sessionID + "|"
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}
