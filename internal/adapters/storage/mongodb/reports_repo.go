package mongodb

import (
	"context"
	"errors"
	"time"

	"pettrack/internal/domain/reports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// locationDoc es GeoJSON, indexado con 2dsphere.
type locationDoc struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

type reportDoc struct {
	ID           string       `bson:"_id"`
	Name         string       `bson:"name"`
	Type         string       `bson:"type"`
	Breed        string       `bson:"breed,omitempty"`
	Description  string       `bson:"description,omitempty"`
	ContactName  string       `bson:"contactName,omitempty"`
	ContactPhone string       `bson:"contactPhone,omitempty"`
	ContactEmail string       `bson:"contactEmail,omitempty"`
	ReportedAt   time.Time    `bson:"reportedAt"`
	Address      string       `bson:"address,omitempty"`
	PhotoURLs    []string     `bson:"photoUrls"`
	Location     *locationDoc `bson:"location,omitempty"`
	OwnerID      string       `bson:"ownerId"`
	Status       string       `bson:"status"`
	CreatedAt    time.Time    `bson:"createdAt"`
}

func toReportDoc(r reports.Report) reportDoc {
	d := reportDoc{
		ID:           r.ID,
		Name:         r.Name,
		Type:         string(r.Type),
		Breed:        r.Breed,
		Description:  r.Description,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		ContactEmail: r.ContactEmail,
		ReportedAt:   r.ReportedAt,
		Address:      r.Address,
		PhotoURLs:    r.PhotoURLs,
		OwnerID:      r.OwnerID,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
	}
	if d.PhotoURLs == nil {
		d.PhotoURLs = []string{}
	}
	if r.Location.Valid() {
		d.Location = &locationDoc{Type: "Point", Coordinates: r.Location.Coordinates}
	}
	return d
}

func (d reportDoc) report() reports.Report {
	r := reports.Report{
		ID:           d.ID,
		Name:         d.Name,
		Type:         reports.Type(d.Type),
		Breed:        d.Breed,
		Description:  d.Description,
		ContactName:  d.ContactName,
		ContactPhone: d.ContactPhone,
		ContactEmail: d.ContactEmail,
		ReportedAt:   d.ReportedAt,
		Address:      d.Address,
		PhotoURLs:    d.PhotoURLs,
		OwnerID:      d.OwnerID,
		Status:       reports.Status(d.Status),
		CreatedAt:    d.CreatedAt,
	}
	if d.Location != nil {
		r.Location = reports.NewPoint(d.Location.Coordinates[0], d.Location.Coordinates[1])
	}
	return r
}

type ReportsRepo struct {
	coll *mongo.Collection
}

func NewReportsRepo(db *mongo.Database) *ReportsRepo {
	return &ReportsRepo{coll: db.Collection(reportsCollection)}
}

func (r *ReportsRepo) Create(ctx context.Context, rep reports.Report) error {
	_, err := r.coll.InsertOne(ctx, toReportDoc(rep))
	return err
}

func (r *ReportsRepo) GetByID(ctx context.Context, id string) (reports.Report, error) {
	var d reportDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return reports.Report{}, notFound(err)
	}
	return d.report(), nil
}

func (r *ReportsRepo) List(ctx context.Context, filter reports.ListFilter) ([]reports.Report, error) {
	q := bson.M{"status": string(reports.StatusOpen)}
	if filter.Type != "" {
		q["type"] = string(filter.Type)
	}

	cur, err := r.coll.Find(ctx, q, options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	}))
	if err != nil {
		return nil, err
	}

	var docs []reportDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]reports.Report, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.report())
	}
	return out, nil
}

// Consume usa find-and-modify: el filtro y el cambio se aplican atómicamente en el servidor.
func (r *ReportsRepo) Consume(ctx context.Context, id string, policy reports.MatchPolicy) (reports.Report, error) {
	filter := bson.M{
		"_id":    id,
		"type":   string(reports.TypeLost),
		"status": string(reports.StatusOpen),
	}

	var (
		d   reportDoc
		err error
	)
	if policy == reports.PolicyArchive {
		err = r.coll.FindOneAndUpdate(ctx, filter,
			bson.M{"$set": bson.M{"status": string(reports.StatusMatched)}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&d)
	} else {
		err = r.coll.FindOneAndDelete(ctx, filter).Decode(&d)
	}
	if err != nil {
		return reports.Report{}, notFound(err)
	}

	rep := d.report()
	rep.Status = reports.StatusMatched
	return rep, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return reports.ErrNotFound
	}
	return err
}
