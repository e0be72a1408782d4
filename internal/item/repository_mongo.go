package item

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

const CollectionName = "items"

type MongoRepository struct {
	coll *mongo.Collection
}

type itemDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description"`
	FullDescription string             `bson:"fullDescription,omitempty"`
	Price           float64            `bson:"price"`
	ImgLink         string             `bson:"imgLink"`
	FormationDate   time.Time          `bson:"formationDate"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// EnsureIndexes is a no-op; items are only looked up by _id.
func (r *MongoRepository) EnsureIndexes(context.Context) error {
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Item, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return decodeItems(ctx, cursor)
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Item{}, ErrNotFound
	}

	var doc itemDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("find item: %w", err)
	}
	return doc.toItem(), nil
}

func (r *MongoRepository) ListByIDs(ctx context.Context, ids []string) ([]Item, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []Item{}, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("list items by id: %w", err)
	}
	return decodeItems(ctx, cursor)
}

func (r *MongoRepository) Create(ctx context.Context, it Item) (Item, error) {
	doc := fromItem(it)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return Item{}, fmt.Errorf("insert item: %w", err)
	}
	return doc.toItem(), nil
}

func (r *MongoRepository) Update(ctx context.Context, it Item) (Item, error) {
	oid, err := primitive.ObjectIDFromHex(it.ID)
	if err != nil {
		return Item{}, ErrNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":            it.Name,
		"description":     it.Description,
		"fullDescription": it.FullDescription,
		"price":           it.Price,
		"imgLink":         it.ImgLink,
		"formationDate":   it.FormationDate,
		"updatedAt":       it.UpdatedAt,
	}})
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeItems(ctx context.Context, cursor *mongo.Cursor) ([]Item, error) {
	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toItem())
	}
	return items, nil
}

func fromItem(it Item) itemDocument {
	return itemDocument{
		Name:            it.Name,
		Description:     it.Description,
		FullDescription: it.FullDescription,
		Price:           it.Price,
		ImgLink:         it.ImgLink,
		FormationDate:   it.FormationDate,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}

func (d itemDocument) toItem() Item {
	return Item{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Description:     d.Description,
		FullDescription: d.FullDescription,
		Price:           d.Price,
		ImgLink:         d.ImgLink,
		FormationDate:   d.FormationDate,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
