package auth

import (
	"context"     // Context for Redis operations
	"crypto/rand" // Random code generation
	"fmt"
	"sync" // Mutex for the in-memory fallback
	"time" // TTL handling

	"github.com/redis/go-redis/v9" // Redis client
)

// CodeTTL is how long a password-reset code stays valid
const CodeTTL = 5 * time.Minute

// CodeStore keeps password-reset codes keyed by email with an expiry.
// Codes are single-use: Consume removes the code when it matches.
type CodeStore interface {
	Put(ctx context.Context, email, code string) error
	Consume(ctx context.Context, email, code string) (bool, error)
}

// NewCodeStore returns a Redis-backed store when a client is available and
// falls back to an in-process map otherwise. The fallback is volatile and
// single-node only: codes are lost on restart and not shared across instances.
func NewCodeStore(rdb *redis.Client) CodeStore {
	if rdb != nil {
		return &redisCodeStore{rdb: rdb}
	}
	return &memoryCodeStore{codes: make(map[string]memoryCode)}
}

// GenerateCode produces a random 6-digit code
func GenerateCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}

// redisCodeStore stores codes in Redis with a TTL
type redisCodeStore struct {
	rdb *redis.Client
}

func resetKey(email string) string {
	return "resetcode:" + email
}

// Put stores the code with the reset TTL
func (s *redisCodeStore) Put(ctx context.Context, email, code string) error {
	return s.rdb.Set(ctx, resetKey(email), code, CodeTTL).Err()
}

// Consume checks the code and deletes it when it matches
func (s *redisCodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	val, err := s.rdb.Get(ctx, resetKey(email)).Result()
	if err == redis.Nil {
		return false, nil // No code stored or already expired
	} else if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	// Single use: drop the code once it has been redeemed
	if err := s.rdb.Del(ctx, resetKey(email)).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// memoryCode is a stored code with its expiry
type memoryCode struct {
	code    string
	expires time.Time
}

// memoryCodeStore is the volatile in-process fallback
type memoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryCode
}

// Put stores the code with the reset TTL
func (s *memoryCodeStore) Put(ctx context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = memoryCode{code: code, expires: time.Now().Add(CodeTTL)}
	return nil
}

// Consume checks the code, enforcing expiry, and deletes it when it matches
func (s *memoryCodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[email]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expires) {
		delete(s.codes, email) // Expired codes are dropped on access
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}
	delete(s.codes, email) // Single use
	return true, nil
}
