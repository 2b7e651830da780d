package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/beamsplit/pkg/dag"
)

var kindFromString = map[string]dag.NodeKind{
	"splitter":  dag.NodeKindSplitter,
	"source":    dag.NodeKindSource,
	"collector": dag.NodeKindCollector,
}

// ReadJSON decodes a JSON graph from r into a DAG.
//
// ReadJSON returns an error if the JSON is malformed, a node has an unknown
// kind or a duplicate ID, an edge references an unknown node, or the
// resulting graph fails [dag.DAG.Validate]. Errors are wrapped with the
// offending node or edge; use errors.Is to check for specific DAG errors.
func ReadJSON(r io.Reader) (*dag.DAG, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var data graph
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(normalizeMeta(data.Meta))
	for _, n := range data.Nodes {
		kind, ok := kindFromString[n.Kind]
		if !ok {
			return nil, fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
		}
		nd := dag.Node{ID: n.ID, Row: n.Row, Col: n.Col, Kind: kind, Meta: normalizeMeta(n.Meta)}
		if err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded DAG.
func ImportJSON(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// normalizeMeta converts json.Number values to uint64, int64 or float64, in
// that order of preference. Non-negative integers always come back as uint64,
// so producers should store counts and dimensions as uint64 for a decoded
// graph to compare equal to the one that was encoded.
func normalizeMeta(m dag.Metadata) dag.Metadata {
	if m == nil {
		return nil
	}
	for k, v := range m {
		num, ok := v.(json.Number)
		if !ok {
			continue
		}
		if u, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
			m[k] = u
		} else if i, err := num.Int64(); err == nil {
			m[k] = i
		} else if f, err := num.Float64(); err == nil {
			m[k] = f
		}
	}
	return m
}
