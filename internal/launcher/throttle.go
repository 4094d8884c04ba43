package launcher

import "golang.org/x/time/rate"

const defaultRapidFailsPerMinute = 10

type restartThrottle interface {
	Allow() bool
}

type limiterThrottle struct {
	limiter *rate.Limiter
}

// newRapidFailThrottle permits at most rapidFailsPerMinute child
// launches per minute. The burst equals the per-minute budget so a
// healthy long-running child never hits the limit.
func newRapidFailThrottle(rapidFailsPerMinute int) restartThrottle {
	if rapidFailsPerMinute <= 0 {
		rapidFailsPerMinute = defaultRapidFailsPerMinute
	}

	return &limiterThrottle{
		limiter: rate.NewLimiter(rate.Limit(float64(rapidFailsPerMinute)/60), rapidFailsPerMinute),
	}
}

func (t *limiterThrottle) Allow() bool {
	if t == nil || t.limiter == nil {
		return true
	}
	return t.limiter.Allow()
}
