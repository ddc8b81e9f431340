package memory

import (
	"strconv"
	"time"

	"hr-intake-bot/internal/model"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps active intake sessions in process memory only.
// Sessions never survive a restart; an abandoned conversation is evicted
// after an hour of inactivity (added policy, see DESIGN.md).
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration 1 hour, expired items purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func key(identity int64) string {
	return strconv.FormatInt(identity, 10)
}

// Save stores the session, resetting its idle clock. A save replaces any
// existing session for the identity (last-writer-wins).
func (r *SessionRepository) Save(session *model.Session) {
	r.cache.Set(key(session.Identity), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(identity int64) (*model.Session, bool) {
	if x, found := r.cache.Get(key(identity)); found {
		return x.(*model.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(identity int64) {
	r.cache.Delete(key(identity))
}
