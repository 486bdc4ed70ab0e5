package queue

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// Config настройки очереди мутаций
type Config struct {
	// BaseDelay задержка после первой неудачи; далее удваивается
	BaseDelay time.Duration
	// MaxDelay верхняя граница задержки (0 - без ограничения)
	MaxDelay time.Duration
	// JitterPercent разброс задержки в процентах (0 - без разброса)
	JitterPercent uint64
	// MaxRetries после стольких транспортных ошибок подряд элемент становится failed
	MaxRetries int
}

// DefaultConfig returns the default queue configuration
func DefaultConfig() Config {
	return Config{
		BaseDelay:     2 * time.Second,
		MaxDelay:      5 * time.Minute,
		JitterPercent: 10,
		MaxRetries:    3,
	}
}

// BackoffFunc возвращает задержку перед следующей попыткой после retryCount
// неудачных попыток подряд (retryCount >= 1).
type BackoffFunc func(retryCount int) time.Duration

// NewBackoff строит экспоненциальную задержку BaseDelay * 2^(retryCount-1)
// с ограничением MaxDelay и разбросом JitterPercent.
func NewBackoff(cfg Config) BackoffFunc {
	return func(retryCount int) time.Duration {
		if retryCount < 1 {
			retryCount = 1
		}

		b := retry.NewExponential(cfg.BaseDelay)
		if cfg.MaxDelay > 0 {
			b = retry.WithCappedDuration(cfg.MaxDelay, b)
		}
		if cfg.JitterPercent > 0 {
			b = retry.WithJitterPercent(cfg.JitterPercent, b)
		}

		var d time.Duration
		for i := 0; i < retryCount; i++ {
			next, stop := b.Next()
			if stop {
				break
			}
			d = next
		}
		return d
	}
}
