package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/matzehuels/topoviz/pkg/buildinfo"
	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/httputil"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Dashboard backend endpoints, relative to the base URL.
const (
	NodesPath       = "/api/network/nodes"
	ConnectionsPath = "/api/network/connections"
)

// HTTP loads a topology from the dashboard backend, or from a single
// document when the URL path ends in .json, .yaml, .yml or .toml.
type HTTP struct {
	URL    string
	client *httputil.Client
}

// NewHTTP returns an HTTP source. Response bodies are cached per URL.
func NewHTTP(rawURL string, opts Options) *HTTP {
	return &HTTP{
		URL: rawURL,
		client: httputil.NewClient(httputil.ClientOptions{
			Timeout:   opts.HTTPTimeout,
			Cache:     opts.Cache,
			Keyer:     opts.Keyer,
			TTL:       opts.TTL,
			Namespace: "source",
			Headers:   map[string]string{"User-Agent": buildinfo.UserAgent()},
		}),
	}
}

// Load fetches and validates the topology.
func (h *HTTP) Load(ctx context.Context) (*topology.Topology, error) {
	if err := errors.ValidateURL(h.URL); err != nil {
		return nil, err
	}
	u, err := url.Parse(h.URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse source URL")
	}

	if format, err := topology.FormatFromPath(u.Path); err == nil {
		body, err := h.client.Get(ctx, h.URL)
		if err != nil {
			return nil, err
		}
		return topology.Unmarshal(body, format)
	}

	base := strings.TrimSuffix(h.URL, "/")
	var t topology.Topology
	if err := h.client.GetJSON(ctx, base+NodesPath, &t.Nodes); err != nil {
		return nil, err
	}
	if err := h.client.GetJSON(ctx, base+ConnectionsPath, &t.Edges); err != nil {
		return nil, err
	}
	if err := topology.Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *HTTP) String() string { return "http " + h.URL }
