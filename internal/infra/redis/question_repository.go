package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"exam-session-service/internal/domain"
	"exam-session-service/internal/question"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionRepository caches normalized question sets in Redis and falls back
// to a loader on cache miss. Sets are stored whole as JSON:
// SET exam:{examID}:questions {json} EX ttl
// The answer key ships inside the cached set; only the service layer ever
// reads this key, clients get the Public() view.
type QuestionRepository struct {
	client *redis.Client
	loader question.SetLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader question.SetLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, examID string) (domain.QuestionSet, error) {
	key := r.questionsKey(examID)

	if set, ok := r.cachedSet(ctx, key); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(examID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cachedSet(ctx, key); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestionSet(ctx, examID)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		if data, err := json.Marshal(set); err == nil {
			// Cache write is best-effort; the loaded set is served either way.
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionRepository) cachedSet(ctx context.Context, key string) (domain.QuestionSet, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil || len(data) == 0 {
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil || set.Len() == 0 {
		return domain.QuestionSet{}, false
	}
	return set, true
}

func (r *QuestionRepository) questionsKey(examID string) string {
	return "exam:" + examID + ":questions"
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
