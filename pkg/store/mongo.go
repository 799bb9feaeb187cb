package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/pipeline"
	"github.com/matzehuels/rustprint/pkg/scan"
)

// Collection is the MongoDB collection reports are kept in.
const Collection = "reports"

// MongoStore keeps one document per content digest in MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, selects database, and ensures the indexes
// the store relies on exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	s := &MongoStore{client: client, coll: client.Database(database).Collection(Collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sha256", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "toolchain_hash", Value: 1}, {Key: "analyzed_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create report indexes: %w", err)
	}
	return nil
}

// reportDoc is the stored shape of a report.
type reportDoc struct {
	ID                   string       `bson:"_id"`
	Name                 string       `bson:"name"`
	SHA256               string       `bson:"sha256"`
	Size                 int64        `bson:"size"`
	AnalyzedAt           time.Time    `bson:"analyzed_at"`
	Packages             []packageDoc `bson:"packages"`
	FrameworkSourcePaths []string     `bson:"framework_source_paths"`
	UserSourcePaths      []string     `bson:"user_source_paths"`
	ToolchainHash        *string      `bson:"toolchain_hash"`
	ToolchainVersion     *string      `bson:"toolchain_version"`
}

type packageDoc struct {
	Path    string `bson:"path"`
	Name    string `bson:"name"`
	Version string `bson:"version"`
}

func toDoc(r *pipeline.Report) reportDoc {
	pkgs := make([]packageDoc, len(r.Packages))
	for i, p := range r.Packages {
		pkgs[i] = packageDoc(p)
	}
	return reportDoc{
		ID:                   r.ID,
		Name:                 r.Name,
		SHA256:               r.SHA256,
		Size:                 r.Size,
		AnalyzedAt:           r.AnalyzedAt,
		Packages:             pkgs,
		FrameworkSourcePaths: r.FrameworkSourcePaths,
		UserSourcePaths:      r.UserSourcePaths,
		ToolchainHash:        r.ToolchainHash,
		ToolchainVersion:     r.ToolchainVersion,
	}
}

func (d reportDoc) report() *pipeline.Report {
	pkgs := make([]scan.Package, len(d.Packages))
	for i, p := range d.Packages {
		pkgs[i] = scan.Package(p)
	}
	paths := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	return &pipeline.Report{
		ID:         d.ID,
		Name:       d.Name,
		SHA256:     d.SHA256,
		Size:       d.Size,
		AnalyzedAt: d.AnalyzedAt,
		Result: scan.Result{
			Packages:             pkgs,
			FrameworkSourcePaths: paths(d.FrameworkSourcePaths),
			UserSourcePaths:      paths(d.UserSourcePaths),
			ToolchainHash:        d.ToolchainHash,
			ToolchainVersion:     d.ToolchainVersion,
		},
	}
}

// Save upserts r by digest.
func (s *MongoStore) Save(ctx context.Context, r *pipeline.Report) error {
	if err := errors.ValidateSHA256(r.SHA256); err != nil {
		return err
	}
	doc := toDoc(r)
	// _id is immutable; keep the first report's ID when replacing.
	existing, err := s.find(ctx, r.SHA256)
	if err == nil {
		doc.ID = existing.ID
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"sha256": r.SHA256}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Get returns the report stored for sha256.
func (s *MongoStore) Get(ctx context.Context, sha256 string) (*pipeline.Report, error) {
	if err := errors.ValidateSHA256(sha256); err != nil {
		return nil, err
	}
	doc, err := s.find(ctx, sha256)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(sha256)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return doc.report(), nil
}

func (s *MongoStore) find(ctx context.Context, sha256 string) (*reportDoc, error) {
	var doc reportDoc
	if err := s.coll.FindOne(ctx, bson.M{"sha256": sha256}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ByToolchain returns reports sharing a toolchain hash, newest first.
func (s *MongoStore) ByToolchain(ctx context.Context, hash string) ([]*pipeline.Report, error) {
	if err := errors.ValidateToolchainHash(hash); err != nil {
		return nil, err
	}
	cur, err := s.coll.Find(ctx, bson.M{"toolchain_hash": hash},
		options.Find().SetSort(bson.D{{Key: "analyzed_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	var docs []reportDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}

	reports := make([]*pipeline.Report, len(docs))
	for i, d := range docs {
		reports[i] = d.report()
	}
	return reports, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
