package redis

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/thywilljoshua/docu-learn/internal/study"
)

const maxUpdateAttempts = 10

// ErrUpdateConflict is returned when an Update keeps losing optimistic
// transactions to concurrent writers.
var ErrUpdateConflict = errors.New("session update conflict")

// SessionStore keeps study sessions in Redis as JSON so that several
// instances can serve the same session. Keys expire ttl after the last
// write. Update is a WATCH/MULTI read-modify-write retried on conflict.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, session study.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return errors.Wrap(s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err(), "redis set session")
}

func (s *SessionStore) Get(ctx context.Context, id string) (study.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return study.Session{}, study.ErrSessionNotFound
	}
	if err != nil {
		return study.Session{}, errors.Wrap(err, "redis get session")
	}
	return decode(data)
}

func (s *SessionStore) Update(ctx context.Context, id string, fn func(*study.Session) error) (study.Session, error) {
	key := s.key(id)
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		var updated study.Session
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return study.ErrSessionNotFound
			}
			if err != nil {
				return errors.Wrap(err, "redis get session")
			}
			session, err := decode(data)
			if err != nil {
				return err
			}
			if err := fn(&session); err != nil {
				return err
			}
			out, err := json.Marshal(session)
			if err != nil {
				return errors.Wrap(err, "encode session")
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, s.ttl)
				return nil
			})
			if err == nil {
				updated = session
			}
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return study.Session{}, err
		}
		return updated, nil
	}
	return study.Session{}, errors.Wrapf(ErrUpdateConflict, "session %s", id)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return errors.Wrap(err, "redis delete session")
	}
	if n == 0 {
		return study.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "doculearn:session:" + id
}

func decode(data []byte) (study.Session, error) {
	var session study.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return study.Session{}, errors.Wrap(err, "decode session")
	}
	return session, nil
}
