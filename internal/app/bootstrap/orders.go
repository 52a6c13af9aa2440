package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/wolfman30/rivertown-concierge/internal/config"
	"github.com/wolfman30/rivertown-concierge/internal/orders"
	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

// DemoOrders seeds the in-memory backend.
func DemoOrders() []orders.Record {
	return []orders.Record{
		{OrderID: "abcd1234efgh5678", FirstName: "Jane", LastName: "Doe", Product: "Maple Sphere", Quantity: 2, OrderDate: "2024-01-05", TotalPrice: 39.98},
		{OrderID: "f00dcafe0001beef", FirstName: "Jane", LastName: "Doe", Product: "Walnut Orb", Quantity: 1, OrderDate: "2024-02-14", TotalPrice: 27.50},
		{OrderID: "0badf00d2024abcd", FirstName: "John", LastName: "Smith", Product: "Cherry Marble Set", Quantity: 3, OrderDate: "2024-03-01", TotalPrice: 54.00},
	}
}

// BuildOrderStore selects the order backend named by ORDER_STORE and wraps
// it in a read-through cache. The returned func releases backend resources.
func BuildOrderStore(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (orders.Store, func(), error) {
	var (
		store   orders.Store
		cleanup = func() {}
	)

	switch strings.ToLower(strings.TrimSpace(cfg.OrderStoreBackend)) {
	case "", "dynamodb":
		client := dynamodb.NewFromConfig(awsCfg)
		store = orders.NewDynamoStore(client, cfg.OrdersTable, cfg.OrdersIndex, logger)
		logger.Info("order store: dynamodb", "table", cfg.OrdersTable, "index", cfg.OrdersIndex)
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres order store")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		store = orders.NewPostgresStore(pool)
		cleanup = pool.Close
		logger.Info("order store: postgres")
	case "memory":
		store = orders.NewStaticStore(DemoOrders()...)
		logger.Info("order store: in-memory demo data")
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown ORDER_STORE %q", cfg.OrderStoreBackend)
	}

	if cfg.OrderCacheSize > 0 && cfg.OrderCacheTTL > 0 {
		store = orders.NewCachedStore(store, cfg.OrderCacheSize, cfg.OrderCacheTTL)
	}
	return store, cleanup, nil
}
