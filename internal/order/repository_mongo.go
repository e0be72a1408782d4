package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "orders"

type MongoRepository struct {
	coll *mongo.Collection
}

type orderDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	User       string             `bson:"user"`
	Products   []Line             `bson:"products"`
	TotalPrice float64            `bson:"totalPrice"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// EnsureIndexes indexes orders by owner for the per-user listing.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *MongoRepository) List(ctx context.Context) ([]Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Order{}, ErrNotFound
	}

	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("find order: %w", err)
	}
	return doc.toOrder(), nil
}

func (r *MongoRepository) Create(ctx context.Context, ord Order) (Order, error) {
	doc := fromOrder(ord)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return doc.toOrder(), nil
}

func (r *MongoRepository) Update(ctx context.Context, ord Order) (Order, error) {
	oid, err := primitive.ObjectIDFromHex(ord.ID)
	if err != nil {
		return Order{}, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"products":   ord.Products,
		"totalPrice": ord.TotalPrice,
		"status":     string(ord.Status),
		"updatedAt":  ord.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	return doc.toOrder(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Order, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toOrder())
	}
	return orders, nil
}

func fromOrder(o Order) orderDocument {
	return orderDocument{
		User:       o.User,
		Products:   o.Products,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func (d orderDocument) toOrder() Order {
	products := d.Products
	if products == nil {
		products = []Line{}
	}
	return Order{
		ID:         d.ID.Hex(),
		User:       d.User,
		Products:   products,
		TotalPrice: d.TotalPrice,
		Status:     Status(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
