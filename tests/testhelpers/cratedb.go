package testhelpers

import (
	"context"
	"fmt"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cratedb/crate-go/core"
	"github.com/cratedb/crate-go/transport"
)

const crateHTTPPort = "4200/tcp"

type CrateDBContainer struct {
	tc.Container
	ConnURL string
	Cluster *core.Cluster
}

// NewCrateDBContainer starts a single-node CrateDB container and
// returns a cluster connected to it. There is no testcontainers module
// for CrateDB, so this uses a generic container request.
func NewCrateDBContainer(ctx context.Context) (*CrateDBContainer, error) {
	req := tc.GenericContainerRequest{
		ProviderType: GetContainerProvider(),
		ContainerRequest: tc.ContainerRequest{
			Image:        "crate:5.8",
			ExposedPorts: []string{crateHTTPPort},
			Cmd:          []string{"crate", "-Cdiscovery.type=single-node"},
			WaitingFor: wait.ForHTTP("/").
				WithPort(crateHTTPPort).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	}

	ctr, err := tc.GenericContainer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("tc.GenericContainer: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := ctr.MappedPort(ctx, crateHTTPPort)
	if err != nil {
		return nil, err
	}

	connURL := fmt.Sprintf("http://%s:%s", host, port.Port())

	cluster, err := core.FromString(transport.NewHTTP(), connURL)
	if err != nil {
		return nil, err
	}

	return &CrateDBContainer{
		Container: ctr,
		ConnURL:   connURL,
		Cluster:   cluster,
	}, nil
}

// NewCluster creates a fresh cluster handle against the container,
// optionally with extra transport options.
func (c *CrateDBContainer) NewCluster(opts ...transport.Option) (*core.Cluster, error) {
	return core.FromString(transport.NewHTTP(opts...), c.ConnURL)
}
