// Package source loads topologies from where they live.
//
// A [Source] returns a fresh [topology.Topology] on every Load. [Open]
// picks an implementation from a location string:
//
//	sample                          built-in demo topology
//	./net.yaml, net.json, net.toml  local file
//	http://host:5000                dashboard backend (/api/network/...)
//	https://host/topology.json      single document
//	mongodb://host:27017/netdb      nodes and connections collections
//
// Remote sources are cached through [github.com/matzehuels/topoviz/pkg/cache];
// local files and the sample never are.
package source

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Source loads a topology.
type Source interface {
	Load(ctx context.Context) (*topology.Topology, error)
	// String describes the source for logs.
	String() string
}

// Options configures sources built by Open. Zero values select defaults.
type Options struct {
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration

	HTTPTimeout time.Duration

	// MongoDatabase overrides the database named in the URI path.
	MongoDatabase string
	// NodesCollection and EdgesCollection name the Mongo collections.
	NodesCollection string
	EdgesCollection string

	Logger *log.Logger
}

// SampleLocation is the location Open maps to the built-in topology.
const SampleLocation = "sample"

// Open returns the source for location.
func Open(location string, opts Options) (Source, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}

	if location == "" || location == SampleLocation {
		return Sample{}, nil
	}

	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return NewFile(location), nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return NewFile(u.Path), nil
	case "http", "https":
		return NewHTTP(location, opts), nil
	case "mongodb", "mongodb+srv":
		m := NewMongo(location, opts)
		return Cached(m, "mongo", location, opts), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported source scheme %q", u.Scheme)
}
