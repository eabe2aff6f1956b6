package services

import (
	"context"
)

// HealthStatus is the data payload of GET /healthcheck.
type HealthStatus struct {
	Status string `json:"status"`
}

// HealthCheck calls GET /healthcheck.
func (a *APIService) HealthCheck(ctx context.Context) Result[HealthStatus] {
	return Decode[HealthStatus](a.Get(ctx, "/healthcheck", nil))
}
