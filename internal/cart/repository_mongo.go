package cart

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

const CollectionName = "carts"

type MongoRepository struct {
	coll *mongo.Collection
}

type cartDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Products  []Line             `bson:"products"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// EnsureIndexes creates the unique userId index that keeps one cart per user.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoRepository) Get(ctx context.Context, userID string) (Cart, error) {
	var doc cartDocument
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Cart{}, ErrCartNotFound
		}
		return Cart{}, fmt.Errorf("find cart: %w", err)
	}
	return doc.toCart(), nil
}

// AddLine increments an existing line in place, otherwise pushes a new line
// with an upsert guarded by the absence of that line. The increment only
// matches a line with room left under MaxLineQuantity. A duplicate key on the
// upsert means the line exists, so the increment is retried once.
func (r *MongoRepository) AddLine(ctx context.Context, userID, productID string, qty int, now time.Time) (Cart, error) {
	if qty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if qty > MaxLineQuantity {
		return Cart{}, ErrQuantityLimit
	}

	c, err := r.incrementLine(ctx, userID, productID, qty, now)
	if err == nil || !errors.Is(err, mongo.ErrNoDocuments) {
		return c, err
	}

	filter := bson.M{"userId": userID, "products.productId": bson.M{"$ne": productID}}
	update := bson.M{
		"$push":        bson.M{"products": Line{ProductID: productID, Quantity: qty}},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc cartDocument
	err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		c, err := r.incrementLine(ctx, userID, productID, qty, now)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Cart{}, ErrQuantityLimit
		}
		return c, err
	}
	if err != nil {
		return Cart{}, fmt.Errorf("add cart line: %w", err)
	}
	return doc.toCart(), nil
}

func (r *MongoRepository) incrementLine(ctx context.Context, userID, productID string, qty int, now time.Time) (Cart, error) {
	filter := bson.M{
		"userId": userID,
		"products": bson.M{"$elemMatch": bson.M{
			"productId": productID,
			"quantity":  bson.M{"$lte": MaxLineQuantity - qty},
		}},
	}
	update := bson.M{
		"$inc": bson.M{"products.$.quantity": qty},
		"$set": bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc cartDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Cart{}, err
		}
		return Cart{}, fmt.Errorf("increment cart line: %w", err)
	}
	return doc.toCart(), nil
}

func (r *MongoRepository) SetLineQuantity(ctx context.Context, userID, productID string, qty int, now time.Time) (Cart, error) {
	filter := bson.M{"userId": userID, "products.productId": productID}
	update := bson.M{"$set": bson.M{"products.$.quantity": qty, "updatedAt": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc cartDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toCart(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Cart{}, fmt.Errorf("set cart line: %w", err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return Cart{}, fmt.Errorf("count carts: %w", err)
	}
	if n == 0 {
		return Cart{}, ErrCartNotFound
	}
	return Cart{}, ErrLineNotFound
}

func (r *MongoRepository) RemoveLine(ctx context.Context, userID, productID string, now time.Time) (Cart, error) {
	update := bson.M{
		"$pull": bson.M{"products": bson.M{"productId": productID}},
		"$set":  bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc cartDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Cart{}, ErrCartNotFound
		}
		return Cart{}, fmt.Errorf("remove cart line: %w", err)
	}
	return doc.toCart(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (d cartDocument) toCart() Cart {
	products := d.Products
	if products == nil {
		products = []Line{}
	}
	return Cart{
		UserID:    d.UserID,
		Products:  products,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
