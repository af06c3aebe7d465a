package database

import (
	"context"
	"time"

	"pastillero-service/errs"
	"pastillero-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// pillDocument mirrors the documents already stored in the "modulo 1"
// collection by the first version of the service.
type pillDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"nombre"`
	IntervalSeconds int                `bson:"intervalSeconds"`
	Module          int                `bson:"modulo"`
	CreatedAt       time.Time          `bson:"timestamp"`
}

func (d pillDocument) model() models.PillDefinition {
	return models.PillDefinition{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		IntervalSeconds: d.IntervalSeconds,
		Module:          d.Module,
		CreatedAt:       d.CreatedAt,
	}
}

type statisticDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Module      int                `bson:"modulo"`
	DispensedAt time.Time          `bson:"dispensionPastilla"`
	PickedUpAt  time.Time          `bson:"recogidaPastilla"`
	RecordedAt  time.Time          `bson:"timestamp"`
}

func (d statisticDocument) model() models.DispenseStatistic {
	return models.DispenseStatistic{
		ID:          d.ID.Hex(),
		Module:      d.Module,
		DispensedAt: d.DispensedAt,
		PickedUpAt:  d.PickedUpAt,
		RecordedAt:  d.RecordedAt,
	}
}

// MongoStore is the production store.
type MongoStore struct {
	client *mongo.Client
	name   string
	pills  *mongo.Collection
	stats  *mongo.Collection
	now    func() time.Time
}

// OpenMongo connects to uri and verifies the primary answers before
// returning.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.StoreUnavailable("connect", err)
	}
	store := NewMongoStore(client, database)
	if err := store.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

// NewMongoStore wraps a connected client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client: client,
		name:   database,
		pills:  db.Collection(PillCollection),
		stats:  db.Collection(StatisticsCollection),
		now:    time.Now,
	}
}

func (s *MongoStore) Driver() string   { return "mongo" }
func (s *MongoStore) Database() string { return s.name }

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return errs.StoreUnavailable("ping", err)
	}
	return nil
}

func (s *MongoStore) InsertPills(ctx context.Context, pills []models.PillDefinition) ([]models.PillDefinition, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	if len(pills) == 0 {
		return []models.PillDefinition{}, nil
	}

	now := s.now().UTC()
	docs := make([]interface{}, len(pills))
	out := make([]models.PillDefinition, len(pills))
	for i, p := range pills {
		doc := pillDocument{
			ID:              primitive.NewObjectID(),
			Name:            p.Name,
			IntervalSeconds: p.IntervalSeconds,
			Module:          p.Module,
			CreatedAt:       p.CreatedAt,
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		docs[i] = doc
		out[i] = doc.model()
	}

	if _, err := s.pills.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, errs.StoreWrite("insert pills", err)
	}
	return out, nil
}

func (s *MongoStore) findPills(ctx context.Context, op string, filter bson.D) ([]models.PillDefinition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.pills.Find(ctx, filter, opts)
	if err != nil {
		return nil, errs.StoreRead(op, err)
	}
	var docs []pillDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errs.StoreRead(op, err)
	}

	pills := make([]models.PillDefinition, 0, len(docs))
	for _, d := range docs {
		pills = append(pills, d.model())
	}
	return pills, nil
}

func (s *MongoStore) ListPills(ctx context.Context) ([]models.PillDefinition, error) {
	return s.findPills(ctx, "list pills", bson.D{})
}

func (s *MongoStore) FindPillsByName(ctx context.Context, name string) ([]models.PillDefinition, error) {
	return s.findPills(ctx, "find pills", bson.D{{Key: "nombre", Value: name}})
}

func (s *MongoStore) CountPills(ctx context.Context) (int64, error) {
	n, err := s.pills.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errs.StoreRead("count pills", err)
	}
	return n, nil
}

func (s *MongoStore) InsertStatistic(ctx context.Context, stat models.DispenseStatistic) (models.DispenseStatistic, error) {
	doc := statisticDocument{
		ID:          primitive.NewObjectID(),
		Module:      stat.Module,
		DispensedAt: stat.DispensedAt,
		PickedUpAt:  stat.PickedUpAt,
		RecordedAt:  stat.RecordedAt,
	}
	if doc.RecordedAt.IsZero() {
		doc.RecordedAt = s.now().UTC()
	}
	if _, err := s.stats.InsertOne(ctx, doc); err != nil {
		return models.DispenseStatistic{}, errs.StoreWrite("insert statistic", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) ListStatistics(ctx context.Context, filter StatisticFilter) ([]models.DispenseStatistic, error) {
	query := bson.D{}
	if filter.Module != nil {
		query = append(query, bson.E{Key: "modulo", Value: *filter.Module})
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.stats.Find(ctx, query, opts)
	if err != nil {
		return nil, errs.StoreRead("list statistics", err)
	}
	var docs []statisticDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errs.StoreRead("list statistics", err)
	}

	stats := make([]models.DispenseStatistic, 0, len(docs))
	for _, d := range docs {
		stats = append(stats, d.model())
	}
	return stats, nil
}

func (s *MongoStore) CountStatistics(ctx context.Context) (int64, error) {
	n, err := s.stats.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errs.StoreRead("count statistics", err)
	}
	return n, nil
}

func (s *MongoStore) DeleteStatistics(ctx context.Context) (int64, error) {
	if err := s.Ping(ctx); err != nil {
		return 0, err
	}
	res, err := s.stats.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, errs.StoreWrite("delete statistics", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
