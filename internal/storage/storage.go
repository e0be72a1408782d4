package storage

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FrigaaAbdou/show-backend/internal/cart"
	"github.com/FrigaaAbdou/show-backend/internal/config"
	"github.com/FrigaaAbdou/show-backend/internal/item"
	"github.com/FrigaaAbdou/show-backend/internal/order"
	"github.com/FrigaaAbdou/show-backend/internal/user"
)

// Stores groups the repositories of one backend.
type Stores struct {
	Users  user.Repository
	Items  item.Repository
	Carts  cart.Repository
	Orders order.Repository

	close func(context.Context) error
}

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// Memory returns empty in-memory stores.
func Memory() *Stores {
	return &Stores{
		Users:  user.NewInMemoryRepository(nil),
		Items:  item.NewInMemoryRepository(nil),
		Carts:  cart.NewInMemoryRepository(),
		Orders: order.NewInMemoryRepository(nil),
	}
}

// Open connects the backend selected by cfg.StoreDriver and prepares its
// indexes or schema.
func Open(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return Memory(), nil

	case config.DriverPostgres:
		db, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("connected to postgres")
		return &Stores{
			Users:  user.NewPostgresRepository(db),
			Items:  item.NewPostgresRepository(db),
			Carts:  cart.NewPostgresRepository(db),
			Orders: order.NewPostgresRepository(db),
			close:  func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.MongoURI, cfg.StoreTimeout)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)

		users := user.NewMongoRepository(db.Collection(user.CollectionName))
		items := item.NewMongoRepository(db.Collection(item.CollectionName))
		carts := cart.NewMongoRepository(db.Collection(cart.CollectionName))
		orders := order.NewMongoRepository(db.Collection(order.CollectionName))

		for _, ix := range []indexer{users, items, carts, orders} {
			if err := ix.EnsureIndexes(ctx); err != nil {
				_ = client.Disconnect(ctx)
				return nil, fmt.Errorf("ensure indexes: %w", err)
			}
		}
		log.Infof("connected to mongo database %q", cfg.MongoDatabase)
		return &Stores{
			Users:  users,
			Items:  items,
			Carts:  carts,
			Orders: orders,
			close:  client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
