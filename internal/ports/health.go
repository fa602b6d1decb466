package ports

//go:generate mockgen -source=health.go -destination=../mocks/health_mock.go -package=mocks

import "context"

// IHealthChecker проверяет доступность внешней зависимости (для readiness).
type IHealthChecker interface {
	Ping(ctx context.Context) error
}
