package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

// OTPManager issues and checks one-time phone verification codes.
type OTPManager interface {
	Issue(ctx context.Context, subject string) (string, error)
	Verify(ctx context.Context, subject, code string) (bool, error)
}

// RedisOTPManager keeps one TOTP secret per subject in Redis. Issuing again replaces the
// secret, so older codes stop working.
type RedisOTPManager struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisOTPManager(client *redis.Client, ttl time.Duration) *RedisOTPManager {
	return &RedisOTPManager{client: client, ttl: ttl, now: time.Now}
}

func otpValidateOpts(ttl time.Duration) totp.ValidateOpts {
	period := uint(ttl / time.Second)
	if period == 0 {
		period = 30
	}
	return totp.ValidateOpts{
		Period:    period,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// NewOTPSecret returns a fresh base32 TOTP secret.
func NewOTPSecret(subject string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "TeleCare",
		AccountName: subject,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP secret: %w", err)
	}
	return key.Secret(), nil
}

// OTPCode derives the six digit code for secret at time t.
func OTPCode(secret string, t time.Time, ttl time.Duration) (string, error) {
	return totp.GenerateCodeCustom(secret, t, otpValidateOpts(ttl))
}

// CheckOTPCode reports whether code is valid for secret at time t.
func CheckOTPCode(code, secret string, t time.Time, ttl time.Duration) bool {
	ok, err := totp.ValidateCustom(code, secret, t, otpValidateOpts(ttl))
	return err == nil && ok
}

func (m *RedisOTPManager) Issue(ctx context.Context, subject string) (string, error) {
	secret, err := NewOTPSecret(subject)
	if err != nil {
		return "", err
	}
	code, err := OTPCode(secret, m.now(), m.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	pipe := m.client.TxPipeline()
	pipe.Set(ctx, OTPSecretPrefix+subject, secret, m.ttl)
	pipe.Del(ctx, OTPAttemptsPrefix+subject)
	if _, err := pipe.Exec(ctx); err != nil {
		GetLogger().Error("Failed to cache OTP secret", zap.Error(err))
		return "", fmt.Errorf("failed to store OTP: %w", err)
	}
	return code, nil
}

// Verify consumes the stored secret when code matches. After MaxOTPAttempts wrong codes
// the secret is discarded and a new code has to be issued.
func (m *RedisOTPManager) Verify(ctx context.Context, subject, code string) (bool, error) {
	key := OTPSecretPrefix + subject
	attemptsKey := OTPAttemptsPrefix + subject
	secret, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if !CheckOTPCode(code, secret, m.now(), m.ttl) {
		return false, m.recordFailure(ctx, key, attemptsKey)
	}

	if err := m.client.Del(ctx, key, attemptsKey).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return true, nil
}

func (m *RedisOTPManager) recordFailure(ctx context.Context, key, attemptsKey string) error {
	attempts, err := m.client.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return fmt.Errorf("failed to count OTP attempt: %w", err)
	}
	if attempts == 1 {
		m.client.Expire(ctx, attemptsKey, m.ttl)
	}
	if attempts >= MaxOTPAttempts {
		GetLogger().Warn("Too many wrong OTP codes, discarding secret", zap.String("key", key))
		if err := m.client.Del(ctx, key, attemptsKey).Err(); err != nil {
			return fmt.Errorf("failed to discard OTP: %w", err)
		}
	}
	return nil
}
