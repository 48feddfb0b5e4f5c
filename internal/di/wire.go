//go:build wireinject
// +build wireinject

package di

import (
	"FXPulse/pkg/config"
	"FXPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp builds the FXPulse object graph from cfg. The returned
// cleanup closes the infrastructure clients and must run after App.Run.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideRateStore,
		ProvideNewsStore,
		ProvideSignalPublisher,

		// Engines and services
		ProvideKPIEngine,
		ProvideSignalEngine,
		ProvideCommentSource,

		// Use cases
		ProvideDashboardUseCase,
		ProvideMarketCommentUseCase,
		ProvideSignalRefresher,
		ProvideKafkaNewsHandler,

		// Delivery
		ProvideRateLimiter,
		ProvideHTTPServer,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
