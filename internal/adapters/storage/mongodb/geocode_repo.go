package mongodb

import (
	"context"
	"errors"
	"time"

	"pettrack/internal/domain/geocode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type geocodeDoc struct {
	Address   string    `bson:"address"`
	Lng       float64   `bson:"lng"`
	Lat       float64   `bson:"lat"`
	Formatted string    `bson:"formatted,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

type GeocodeRepo struct {
	coll *mongo.Collection
}

func NewGeocodeRepo(db *mongo.Database) *GeocodeRepo {
	return &GeocodeRepo{coll: db.Collection(geocodeCollection)}
}

func (r *GeocodeRepo) Get(ctx context.Context, address string) (geocode.CacheEntry, error) {
	var d geocodeDoc
	if err := r.coll.FindOne(ctx, bson.M{"address": address}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return geocode.CacheEntry{}, geocode.ErrNotFound
		}
		return geocode.CacheEntry{}, err
	}
	return geocode.CacheEntry{
		Address:   d.Address,
		Lng:       d.Lng,
		Lat:       d.Lat,
		Formatted: d.Formatted,
		CreatedAt: d.CreatedAt,
	}, nil
}

// Put con $setOnInsert: si la dirección ya estaba no se toca.
func (r *GeocodeRepo) Put(ctx context.Context, e geocode.CacheEntry) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"address": e.Address},
		bson.M{"$setOnInsert": geocodeDoc{
			Address:   e.Address,
			Lng:       e.Lng,
			Lat:       e.Lat,
			Formatted: e.Formatted,
			CreatedAt: e.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
