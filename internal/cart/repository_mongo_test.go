package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func cartDoc(userID string, lines ...bson.D) bson.D {
	products := bson.A{}
	for _, l := range lines {
		products = append(products, l)
	}
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "userId", Value: userID},
		{Key: "products", Value: products},
	}
}

func line(pid string, qty int32) bson.D {
	return bson.D{{Key: "productId", Value: pid}, {Key: "quantity", Value: qty}}
}

// findAndModify replies carry the document under "value".
func modifyReply(doc bson.D) bson.D {
	return bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: doc}}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Now()

	mt.Run("add increments existing line", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(modifyReply(cartDoc("u1", line("p1", 5))))

		c, err := repo.AddLine(context.Background(), "u1", "p1", 3, now)
		if err != nil {
			mt.Fatalf("expected nil err, got %v", err)
		}
		if len(c.Products) != 1 || c.Products[0].Quantity != 5 {
			mt.Fatalf("unexpected cart %+v", c)
		}
	})

	mt.Run("add pushes when line is absent", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			modifyReply(cartDoc("u1", line("p1", 1), line("p2", 2))),
		)

		c, err := repo.AddLine(context.Background(), "u1", "p2", 2, now)
		if err != nil {
			mt.Fatalf("expected nil err, got %v", err)
		}
		if len(c.Products) != 2 || c.Products[1].ProductID != "p2" {
			mt.Fatalf("unexpected cart %+v", c)
		}
	})

	mt.Run("add past the line limit", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Name:    "DuplicateKey",
				Message: "E11000 duplicate key error collection: show.carts index: userId_1",
			}),
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
		)

		if _, err := repo.AddLine(context.Background(), "u1", "p1", 1, now); !errors.Is(err, ErrQuantityLimit) {
			mt.Fatalf("expected ErrQuantityLimit, got %v", err)
		}
	})

	mt.Run("add rejects oversized quantity without a round trip", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		if _, err := repo.AddLine(context.Background(), "u1", "p1", MaxLineQuantity+1, now); !errors.Is(err, ErrQuantityLimit) {
			mt.Fatalf("expected ErrQuantityLimit, got %v", err)
		}
	})

	mt.Run("set quantity on missing cart", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(1, "show.carts", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(0)}}),
		)

		if _, err := repo.SetLineQuantity(context.Background(), "u1", "p1", 2, now); !errors.Is(err, ErrCartNotFound) {
			mt.Fatalf("expected ErrCartNotFound, got %v", err)
		}
	})

	mt.Run("set quantity on missing line", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(1, "show.carts", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		if _, err := repo.SetLineQuantity(context.Background(), "u1", "p1", 2, now); !errors.Is(err, ErrLineNotFound) {
			mt.Fatalf("expected ErrLineNotFound, got %v", err)
		}
	})

	mt.Run("remove without cart", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		if _, err := repo.RemoveLine(context.Background(), "u1", "p1", now); !errors.Is(err, ErrCartNotFound) {
			mt.Fatalf("expected ErrCartNotFound, got %v", err)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}},
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}},
		)

		if err := repo.Delete(context.Background(), "u1"); err != nil {
			mt.Fatalf("expected nil err, got %v", err)
		}
		if err := repo.Delete(context.Background(), "u1"); !errors.Is(err, ErrCartNotFound) {
			mt.Fatalf("expected ErrCartNotFound, got %v", err)
		}
	})
}
