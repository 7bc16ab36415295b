package sink

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/topoviz/pkg/core/render"
)

// RenderJSON encodes a scene for hosts that draw it themselves.
func RenderJSON(sc *render.Scene) ([]byte, error) {
	return json.MarshalIndent(sc, "", "  ")
}

// WriteJSON streams a scene as one compact JSON document followed by a
// newline, which suits event streams.
func WriteJSON(w io.Writer, sc *render.Scene) error {
	return json.NewEncoder(w).Encode(sc)
}
