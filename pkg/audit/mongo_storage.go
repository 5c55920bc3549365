package audit

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoStorage persists audit records in a MongoDB collection. Audit volume
// grows unbounded and is read rarely, which suits a document store better
// than the transactional booking database.
type MongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage wraps an existing collection.
func NewMongoStorage(coll *mongo.Collection) (*MongoStorage, error) {
	if coll == nil {
		return nil, errors.New("audit: mongo collection cannot be nil")
	}
	return &MongoStorage{coll: coll}, nil
}

func (s *MongoStorage) Store(ctx context.Context, rec Record) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return errors.Join(ErrStorageNotAvailable, err)
	}
	return nil
}

func (s *MongoStorage) StoreBatch(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}

	docs := make([]any, len(recs))
	for i, rec := range recs {
		docs[i] = rec
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errors.Join(ErrStorageNotAvailable, err)
	}
	return nil
}
