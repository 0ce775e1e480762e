package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// CompositeHealthChecker is healthy only when every checker is.
type CompositeHealthChecker []HealthChecker

func (c CompositeHealthChecker) Healthy(ctx context.Context) bool {
	for _, hc := range c {
		if !hc.Healthy(ctx) {
			return false
		}
	}
	return true
}
