package services

import (
	"context"
	"fmt"
	"sync"

	"library-api/config"
	"library-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollections names the collections read by MongoCatalogStore.
type MongoCollections struct {
	Journals string
	Subjects string
	Types    string
	Users    string
	Details  string
}

// DefaultMongoCollections returns the collection names used by the library front end.
func DefaultMongoCollections() MongoCollections {
	return MongoCollections{
		Journals: "journals",
		Subjects: "subjects",
		Types:    "types",
		Users:    "users",
		Details:  "details",
	}
}

// MongoConnector dials MongoDB.
type MongoConnector func(ctx context.Context) (*mongo.Client, error)

// MongoCatalogStore reads the catalog from MongoDB.
type MongoCatalogStore struct {
	connect     MongoConnector
	database    string
	collections MongoCollections

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

// recordDocument is the projection produced by the records pipeline. Fields
// are kept raw so their shape can be checked before they leave the gateway.
type recordDocument struct {
	Type        bson.RawValue `bson:"type"`
	SubjectName bson.RawValue `bson:"subjectName"`
	Indexing    bson.RawValue `bson:"indexing"`
}

// NewMongoCatalogStore creates a store that dials lazily through connect.
func NewMongoCatalogStore(connect MongoConnector, database string, collections MongoCollections) *MongoCatalogStore {
	return &MongoCatalogStore{
		connect:     connect,
		database:    database,
		collections: collections,
	}
}

func (s *MongoCatalogStore) Driver() string { return "mongo" }

// Connect dials once; a failed attempt is not remembered so the next request retries it.
func (s *MongoCatalogStore) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}
	client, err := s.connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreConnection, err)
	}
	s.client = client
	s.db = client.Database(s.database)
	return nil
}

// Close disconnects the underlying client, if any.
func (s *MongoCatalogStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := config.DisconnectMongo(ctx, s.client)
	s.client, s.db = nil, nil
	return err
}

func (s *MongoCatalogStore) connectedDB() (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("%w: not connected", ErrStoreConnection)
	}
	return s.db, nil
}

// recordsPipeline resolves the subject and detail references of every journal
// and keeps only the fields the statistics need.
func (s *MongoCatalogStore) recordsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$project", Value: bson.M{"type": 1, "subject": 1, "detail": 1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         s.collections.Subjects,
			"localField":   "subject",
			"foreignField": "_id",
			"as":           "subject",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         s.collections.Details,
			"localField":   "detail",
			"foreignField": "_id",
			"as":           "detail",
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"type":        1,
			"subjectName": bson.M{"$arrayElemAt": bson.A{"$subject.subjectName", 0}},
			"indexing":    bson.M{"$arrayElemAt": bson.A{"$detail.indexing", 0}},
		}}},
	}
}

func (s *MongoCatalogStore) Records(ctx context.Context) ([]models.Record, error) {
	db, err := s.connectedDB()
	if err != nil {
		return nil, err
	}

	cursor, err := db.Collection(s.collections.Journals).Aggregate(ctx, s.recordsPipeline())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreQuery, s.collections.Journals, err)
	}
	defer cursor.Close(ctx)

	records := make([]models.Record, 0)
	for cursor.Next(ctx) {
		var doc recordDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRecordShape, s.collections.Journals, err)
		}
		record, err := recordFromDocument(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreQuery, s.collections.Journals, err)
	}
	return records, nil
}

func (s *MongoCatalogStore) Subjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := s.findProjected(ctx, s.collections.Subjects, "subjectName", &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *MongoCatalogStore) Types(ctx context.Context) ([]models.Type, error) {
	var types []models.Type
	if err := s.findProjected(ctx, s.collections.Types, "name", &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (s *MongoCatalogStore) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.findProjected(ctx, s.collections.Users, "role", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoCatalogStore) findProjected(ctx context.Context, collection, field string, out interface{}) error {
	db, err := s.connectedDB()
	if err != nil {
		return err
	}

	opts := options.Find().SetProjection(bson.M{"_id": 0, field: 1})
	cursor, err := db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStoreQuery, collection, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRecordShape, collection, err)
	}
	return nil
}

// recordFromDocument validates the raw projection. Missing or null fields are
// allowed; a type or subject name that is not a string, or an indexing value
// that is not an array, is rejected. Non-string indexing entries are skipped
// since they can never match a known label.
func recordFromDocument(doc recordDocument) (models.Record, error) {
	var record models.Record

	typ, err := optionalString(doc.Type, "type")
	if err != nil {
		return record, err
	}
	subjectName, err := optionalString(doc.SubjectName, "subjectName")
	if err != nil {
		return record, err
	}
	record.Type = typ
	record.SubjectName = subjectName

	if isAbsent(doc.Indexing) {
		return record, nil
	}
	arr, ok := doc.Indexing.ArrayOK()
	if !ok {
		return record, fmt.Errorf("%w: indexing is %s, want array", ErrRecordShape, doc.Indexing.Type)
	}
	values, err := arr.Values()
	if err != nil {
		return record, fmt.Errorf("%w: indexing: %v", ErrRecordShape, err)
	}
	record.Indexing = make([]string, 0, len(values))
	for _, v := range values {
		if label, ok := v.StringValueOK(); ok {
			record.Indexing = append(record.Indexing, label)
		}
	}
	return record, nil
}

func optionalString(v bson.RawValue, field string) (string, error) {
	if isAbsent(v) {
		return "", nil
	}
	str, ok := v.StringValueOK()
	if !ok {
		return "", fmt.Errorf("%w: %s is %s, want string", ErrRecordShape, field, v.Type)
	}
	return str, nil
}

func isAbsent(v bson.RawValue) bool {
	return v.Type == 0 || v.Type == bson.TypeNull || v.Type == bson.TypeUndefined
}
