package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/butterflyhq/butterfly/constants"
	"github.com/butterflyhq/butterfly/internal/common"
	"github.com/butterflyhq/butterfly/internal/entity"
)

// Mongo bundles the client and the two collections the system writes to.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// OpenMongo connects and pings the deployment.
func OpenMongo(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (*Mongo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to store", "uri", cfg.MongoURI, "db", cfg.Database)

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", common.ErrStore, err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %v", common.ErrStore, err)
	}

	return &Mongo{client: client, db: client.Database(cfg.Database), logger: logger}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Documents returns the invoice collection as a DocumentStore.
func (m *Mongo) Documents() DocumentStore {
	return &mongoDocuments{coll: m.db.Collection(constants.CollectionInvoices), logger: m.logger}
}

// QAPairs returns the qa_pairs collection as a QAStore.
func (m *Mongo) QAPairs() QAStore {
	return &mongoQAPairs{coll: m.db.Collection(constants.CollectionQAPairs), logger: m.logger}
}

type mongoDocuments struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func (s *mongoDocuments) Insert(ctx context.Context, doc *entity.Document) error {
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert invoice: %v", common.ErrStore, err)
	}
	s.logger.Debug("stored invoice", "filename", doc.Filename, "pages", len(doc.Pages))
	return nil
}

func (s *mongoDocuments) Find(ctx context.Context, filter Filter) ([]entity.Document, error) {
	cur, err := s.coll.Find(ctx, toBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("%w: find invoices: %v", common.ErrStore, err)
	}
	defer cur.Close(ctx)

	var docs []entity.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode invoices: %v", common.ErrStore, err)
	}
	return docs, nil
}

type mongoQAPairs struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func (s *mongoQAPairs) Insert(ctx context.Context, rec *entity.QARecord) error {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("%w: insert qa pair: %v", common.ErrStore, err)
	}
	s.logger.Debug("stored qa pair", "id", rec.ID, "sources", len(rec.Sources))
	return nil
}

func (s *mongoQAPairs) Find(ctx context.Context, filter Filter) ([]entity.QARecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := s.coll.Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find qa pairs: %v", common.ErrStore, err)
	}
	defer cur.Close(ctx)

	var recs []entity.QARecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("%w: decode qa pairs: %v", common.ErrStore, err)
	}
	return recs, nil
}

func toBSON(filter Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = v
	}
	return m
}
