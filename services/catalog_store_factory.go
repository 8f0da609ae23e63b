package services

import (
	"context"
	"fmt"

	"library-api/config"

	"go.mongodb.org/mongo-driver/mongo"
)

// OpenCatalogStore builds the store selected by STORE_DRIVER. The returned
// close function releases the connection and is always non-nil.
func OpenCatalogStore(cfg *config.Configuration) (CatalogStore, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		store := NewMongoCatalogStore(func(ctx context.Context) (*mongo.Client, error) {
			return config.ConnectMongo(ctx, cfg)
		}, cfg.MongoDatabase, DefaultMongoCollections())
		return store, store.Close, nil

	case config.StoreDriverMySQL:
		db, err := config.OpenMySQL(cfg)
		if err != nil {
			return nil, func(context.Context) error { return nil }, err
		}
		return NewSQLCatalogStore(db), func(ctx context.Context) error {
			return config.CloseMySQL(ctx, db)
		}, nil

	default:
		return nil, func(context.Context) error { return nil }, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
