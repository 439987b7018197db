package mongodb

import (
	"context"
	"time"

	"pettrack/internal/domain/matches"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type matchDoc struct {
	ID            string    `bson:"_id"`
	LostReportID  string    `bson:"lostPetId"`
	FoundReportID string    `bson:"foundPetId"`
	Score         float64   `bson:"score"`
	Lost          reportDoc `bson:"lostSnapshot"`
	CreatedAt     time.Time `bson:"createdAt"`
}

type MatchesRepo struct {
	coll *mongo.Collection
}

func NewMatchesRepo(db *mongo.Database) *MatchesRepo {
	return &MatchesRepo{coll: db.Collection(matchesCollection)}
}

func (r *MatchesRepo) Create(ctx context.Context, m matches.Match) error {
	_, err := r.coll.InsertOne(ctx, matchDoc{
		ID:            m.ID,
		LostReportID:  m.LostReportID,
		FoundReportID: m.FoundReportID,
		Score:         m.Score,
		Lost:          toReportDoc(m.Lost),
		CreatedAt:     m.CreatedAt,
	})
	return err
}

func (r *MatchesRepo) List(ctx context.Context) ([]matches.Match, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	}))
	if err != nil {
		return nil, err
	}

	var docs []matchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]matches.Match, 0, len(docs))
	for _, d := range docs {
		out = append(out, matches.Match{
			ID:            d.ID,
			LostReportID:  d.LostReportID,
			FoundReportID: d.FoundReportID,
			Score:         d.Score,
			CreatedAt:     d.CreatedAt,
			Lost:          d.Lost.report(),
		})
	}
	return out, nil
}
