package core

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
)

// EndpointType distinguishes the URL suffix a request is routed to
// (/_sql vs. /_blobs).
type EndpointType int

const (
	EndpointSQL EndpointType = iota
	EndpointBlob
)

func (t EndpointType) suffix() string {
	if t == EndpointBlob {
		return "_blobs"
	}
	return "_sql"
}

// Cluster is a handle to a set of database nodes reachable through a
// Backend. The node list is immutable after construction and every call
// picks a node independently, so a single Cluster may be shared between
// goroutines.
type Cluster struct {
	nodes   []*url.URL
	backend Backend
}

// New creates a cluster from the provided node base URLs and a backend.
// At least one node is required.
func New(backend Backend, nodes ...*url.URL) (*Cluster, error) {
	if len(nodes) < 1 {
		return nil, ErrNoNodes
	}

	return &Cluster{
		nodes:   nodes,
		backend: backend,
	}, nil
}

// FromString creates a cluster from a comma-separated list of node base
// URLs, e.g. "http://localhost:4200,http://play.crate.io".
func FromString(backend Backend, nodeStr string) (*Cluster, error) {
	var nodes []*url.URL
	for _, raw := range strings.Split(nodeStr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("url.Parse: %w", err)
		}
		nodes = append(nodes, u)
	}

	return New(backend, nodes...)
}

// Nodes returns the configured node base URLs.
func (c *Cluster) Nodes() []*url.URL {
	return c.nodes
}

// endpoint picks one node uniformly at random and appends the suffix for
// the requested endpoint type. Selection is stateless, which keeps
// concurrent callers free of shared mutable state (a round-robin counter
// would need synchronization).
func (c *Cluster) endpoint(kind EndpointType) string {
	node := c.nodes[rand.Intn(len(c.nodes))]
	return node.JoinPath(kind.suffix()).String()
}
