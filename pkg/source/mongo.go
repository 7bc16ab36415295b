package source

import (
	"context"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "topoviz"
	DefaultNodesCollection = "nodes"
	DefaultEdgesCollection = "connections"
)

// Mongo reads node and connection documents from two collections. Each
// Load opens and closes its own connection.
type Mongo struct {
	URI      string
	Database string
	Nodes    string
	Edges    string
}

// NewMongo returns a Mongo source. The database is taken from opts, then
// from the URI path, then defaults to "topoviz".
func NewMongo(uri string, opts Options) *Mongo {
	m := &Mongo{
		URI:      uri,
		Database: opts.MongoDatabase,
		Nodes:    opts.NodesCollection,
		Edges:    opts.EdgesCollection,
	}
	if m.Database == "" {
		if u, err := url.Parse(uri); err == nil {
			m.Database = strings.Trim(u.Path, "/")
		}
	}
	if m.Database == "" {
		m.Database = DefaultMongoDatabase
	}
	if m.Nodes == "" {
		m.Nodes = DefaultNodesCollection
	}
	if m.Edges == "" {
		m.Edges = DefaultEdgesCollection
	}
	return m
}

// Load reads both collections and validates the records.
func (m *Mongo) Load(ctx context.Context) (*topology.Topology, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	db := client.Database(m.Database)
	var t topology.Topology
	if err := findAll(ctx, db.Collection(m.Nodes), &t.Nodes); err != nil {
		return nil, err
	}
	if err := findAll(ctx, db.Collection(m.Edges), &t.Edges); err != nil {
		return nil, err
	}
	if err := topology.Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out any) error {
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "query %s", coll.Name())
	}
	if err := cur.All(ctx, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", coll.Name())
	}
	return nil
}

func (m *Mongo) String() string { return "mongo " + m.Database }

// Insert writes a topology into the source collections, replacing their
// contents. The seed command uses it to populate a database.
func (m *Mongo) Insert(ctx context.Context, t *topology.Topology) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	db := client.Database(m.Database)
	if err := replaceAll(ctx, db.Collection(m.Nodes), t.Nodes); err != nil {
		return err
	}
	return replaceAll(ctx, db.Collection(m.Edges), t.Edges)
}

func replaceAll[T any](ctx context.Context, coll *mongo.Collection, docs []T) error {
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "clear %s", coll.Name())
	}
	if len(docs) == 0 {
		return nil
	}
	batch := make([]any, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	if _, err := coll.InsertMany(ctx, batch); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "insert into %s", coll.Name())
	}
	return nil
}
