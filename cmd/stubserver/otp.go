package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"sync"
	"time"

	"flamesblue/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const otpTTL = 5 * time.Minute

// generateSecureOTP generates a secure random OTP of the specified length.
// It returns a base32 encoded string (without padding) truncated to the
// desired length.
func generateSecureOTP(length int) (string, error) {
	numBytes := (length*5 + 7) / 8
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	otp := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	if len(otp) > length {
		otp = otp[:length]
	}
	return otp, nil
}

// otpStore holds issued codes until they are verified or expire.
type otpStore interface {
	Put(ctx context.Context, phone, code string) error
	Take(ctx context.Context, phone string) (string, error)
}

// newOTPStore uses Redis when an address is configured and reachable,
// otherwise an in-process TTL map so the stub stays runnable offline.
func newOTPStore(logger *zap.Logger) otpStore {
	addr := config.AppConfig.RedisAddr
	if addr == "" {
		return newMemoryOTPStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOTPDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory OTP store", zap.Error(err))
		return newMemoryOTPStore()
	}
	logger.Sugar().Infof("Using Redis OTP store at %s", addr)
	return &redisOTPStore{client: client}
}

type redisOTPStore struct {
	client *redis.Client
}

func (s *redisOTPStore) Put(ctx context.Context, phone, code string) error {
	key := fmt.Sprintf("otp:%s", phone)
	if err := s.client.Set(ctx, key, code, otpTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache OTP: %w", err)
	}
	return nil
}

func (s *redisOTPStore) Take(ctx context.Context, phone string) (string, error) {
	key := fmt.Sprintf("otp:%s", phone)
	code, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("OTP not found or expired")
		}
		return "", fmt.Errorf("failed to retrieve OTP: %w", err)
	}
	s.client.Del(ctx, key)
	return code, nil
}

type memoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]memoryOTPEntry
}

type memoryOTPEntry struct {
	code    string
	expires time.Time
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{entries: make(map[string]memoryOTPEntry)}
}

func (s *memoryOTPStore) Put(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = memoryOTPEntry{code: code, expires: time.Now().Add(otpTTL)}
	return nil
}

func (s *memoryOTPStore) Take(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[phone]
	if !ok || time.Now().After(entry.expires) {
		delete(s.entries, phone)
		return "", fmt.Errorf("OTP not found or expired")
	}
	delete(s.entries, phone)
	return entry.code, nil
}
