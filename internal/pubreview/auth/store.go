package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pubreview/internal/pubreview/config"

	"github.com/redis/go-redis/v9"
)

// RefreshStore records outstanding refresh tokens by id.
type RefreshStore interface {
	Save(ctx context.Context, id, subject string, ttl time.Duration) error
	// Rotate consumes id and records next in its place. Rotating an id that
	// was already consumed returns the pair it was rotated into while the
	// grace window lasts, and ErrRefreshReused afterwards.
	Rotate(ctx context.Context, id, subject string, next Rotation) (*TokenPair, error)
}

// Rotation is the pair replacing a consumed refresh token.
type Rotation struct {
	ID    string
	Pair  TokenPair
	TTL   time.Duration
	Grace time.Duration
}

type RedisRefreshStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client, prefix: "refresh:"}
}

func (s *RedisRefreshStore) Save(ctx context.Context, id, subject string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+id, subject, ttl).Err()
}

// KEYS: outstanding id, next id, rotated marker for the outstanding id.
// ARGV: subject, next ttl ms, encoded next pair, grace ms.
var rotateScript = redis.NewScript(`
local subject = redis.call('GET', KEYS[1])
if subject then
	if subject ~= ARGV[1] then
		return {'invalid', ''}
	end
	redis.call('DEL', KEYS[1])
	redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
	if tonumber(ARGV[4]) > 0 then
		redis.call('SET', KEYS[3], ARGV[3], 'PX', ARGV[4])
	end
	return {'rotated', ARGV[3]}
end
local rotated = redis.call('GET', KEYS[3])
if rotated then
	return {'rotated', rotated}
end
return {'reused', ''}
`)

func (s *RedisRefreshStore) Rotate(ctx context.Context, id, subject string, next Rotation) (*TokenPair, error) {
	encoded, err := json.Marshal(next.Pair)
	if err != nil {
		return nil, fmt.Errorf("encode refresh pair: %w", err)
	}

	keys := []string{s.prefix + id, s.prefix + next.ID, s.prefix + "used:" + id}
	reply, err := rotateScript.Run(ctx, s.client, keys,
		subject, next.TTL.Milliseconds(), string(encoded), next.Grace.Milliseconds()).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	if len(reply) != 2 {
		return nil, fmt.Errorf("rotate refresh token: unexpected reply %v", reply)
	}

	switch reply[0] {
	case "invalid":
		return nil, ErrTokenInvalid
	case "reused":
		return nil, ErrRefreshReused
	}
	var pair TokenPair
	if err := json.Unmarshal([]byte(reply[1]), &pair); err != nil {
		return nil, fmt.Errorf("decode refresh pair: %w", err)
	}
	return &pair, nil
}

// NewRedisClient connects to redis and pings it.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
