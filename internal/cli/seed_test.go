package cli

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/source"
	"github.com/matzehuels/topoviz/pkg/topology"
)

func TestIsMongoURI(t *testing.T) {
	tests := []struct {
		uri  string
		want bool
	}{
		{"mongodb://localhost:27017/topoviz", true},
		{"MongoDB+SRV://cluster.example.net", true},
		{"http://localhost:5000", false},
		{"net.yaml", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isMongoURI(tt.uri); got != tt.want {
			t.Errorf("isMongoURI(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestSeedRejectsNonMongoTarget(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.PersistentPreRunE = nil
	root.SetArgs([]string{"seed", "http://localhost:5000"})

	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestSeedMongo(t *testing.T) {
	uri := os.Getenv("TOPOVIZ_MONGO_URI")
	if uri == "" {
		t.Skip("TOPOVIZ_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	c := newTestCLI(t)
	c.Config.Source.MongoDatabase = "topoviz_seed_test"
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.PersistentPreRunE = nil
	root.SetArgs([]string{"seed", uri})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := source.NewMongo(uri, c.sourceOptions(nil)).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := topology.Sample()
	if got.NodeCount() != want.NodeCount() || got.EdgeCount() != want.EdgeCount() {
		t.Errorf("counts = %d/%d, want %d/%d", got.NodeCount(), got.EdgeCount(), want.NodeCount(), want.EdgeCount())
	}
}
