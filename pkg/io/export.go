package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/beamsplit/pkg/dag"
)

type graph struct {
	Meta  dag.Metadata `json:"meta,omitempty"`
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Row  int          `json:"row"`
	Col  int          `json:"col"`
	Kind string       `json:"kind"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a DAG as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *dag.DAG, w io.Writer) error {
	nodes := g.Nodes()
	edges := g.Edges()
	out := graph{
		Meta:  g.Meta(),
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, len(edges)),
	}

	for i, n := range nodes {
		out.Nodes[i] = node{ID: n.ID, Row: n.Row, Col: n.Col, Kind: n.Kind.String(), Meta: n.Meta}
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.From, To: e.To}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the JSON encoding produced by [WriteJSON].
func MarshalJSON(g *dag.DAG) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes a DAG to a JSON file at path.
func ExportJSON(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
