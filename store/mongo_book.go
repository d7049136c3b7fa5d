package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/francescomascellino/library-api/entity"
)

// MongoBookStore implements BookStore on a MongoDB collection.
type MongoBookStore struct {
	coll *mongo.Collection
}

func NewMongoBookStore(coll *mongo.Collection) *MongoBookStore {
	return &MongoBookStore{coll: coll}
}

// activeFilter matches books that are not soft-deleted, tolerating legacy
// documents written before the flag existed.
func activeFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"is_deleted": bson.M{"$exists": false}},
		bson.M{"is_deleted": false},
	}}
}

func (s *MongoBookStore) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Book, error) {
	var book entity.Book
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *MongoBookStore) FindByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	var book entity.Book
	err := s.coll.FindOne(ctx, bson.M{"isbn": isbn}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *MongoBookStore) FindActive(ctx context.Context, page, pageSize int64) (*BookPage, error) {
	return s.findPage(ctx, activeFilter(), page, pageSize)
}

func (s *MongoBookStore) FindDeleted(ctx context.Context, page, pageSize int64) (*BookPage, error) {
	return s.findPage(ctx, bson.M{"is_deleted": true}, page, pageSize)
}

func (s *MongoBookStore) findPage(ctx context.Context, filter bson.M, page, pageSize int64) (*BookPage, error) {
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]entity.Book, 0, pageSize)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return &BookPage{Docs: docs, PageInfo: NewPageInfo(total, page, pageSize)}, nil
}

func (s *MongoBookStore) FindLoaned(ctx context.Context) ([]entity.Book, error) {
	return s.findAll(ctx, bson.M{"loaned_to": bson.M{"$ne": nil}})
}

func (s *MongoBookStore) FindAvailable(ctx context.Context) ([]entity.Book, error) {
	filter := activeFilter()
	filter["loaned_to"] = nil
	return s.findAll(ctx, filter)
}

func (s *MongoBookStore) findAll(ctx context.Context, filter bson.M) ([]entity.Book, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []entity.Book
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *MongoBookStore) Insert(ctx context.Context, book *entity.Book) (*entity.Book, error) {
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *MongoBookStore) Save(ctx context.Context, book *entity.Book) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": book.ID}, book)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *MongoBookStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
