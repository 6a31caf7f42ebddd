package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedb/crate-go/core"
	"github.com/cratedb/crate-go/core/mock"
)

func newTestCluster(t *testing.T, opts ...mock.BackendOption) (*core.Cluster, *mock.Backend) {
	t.Helper()

	backend := mock.NewBackend(opts...)
	cluster, err := core.FromString(backend, "http://localhost:4200")
	require.NoError(t, err)

	return cluster, backend
}

func TestQuery_Success(t *testing.T) {
	r := require.New(t)

	cluster, backend := newTestCluster(t, mock.BackendWithBody(
		`{"cols":["name"],"rows":[["A"]],"rowcount":1,"duration":0.206}`,
	))

	rows, err := cluster.Query(context.Background(), "select name from mytable where a = ?", "hello")
	r.NoError(err)

	r.Equal(0.206, rows.Duration)
	r.Equal(1, rows.Len())
	r.Equal(core.Header{"name"}, rows.Header())

	name, ok := rows.Row(0).StringByName("name")
	r.True(ok)
	r.Equal("A", name)

	calls := backend.ExecuteCalls()
	r.Len(calls, 1)
	r.Equal("http://localhost:4200/_sql", calls[0].URL)
	r.JSONEq(`{"stmt":"select name from mytable where a = ?","args":["hello"]}`, calls[0].Payload)
}

func TestQuery_NoParamsOmitsArgs(t *testing.T) {
	r := require.New(t)

	cluster, backend := newTestCluster(t, mock.BackendWithBody(
		`{"cols":[],"rows":[],"rowcount":0,"duration":0.1}`,
	))

	_, err := cluster.Query(context.Background(), "select 1")
	r.NoError(err)

	calls := backend.ExecuteCalls()
	r.Len(calls, 1)
	r.Equal(`{"stmt":"select 1"}`, calls[0].Payload)
}

func TestQuery_ServerError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *core.ServerError
	}{
		{
			name: "integer code",
			body: `{"error":{"message":"ReadOnlyException[Only read operations are allowed on this node]","code":5000}}`,
			want: core.NewServerError("ReadOnlyException[Only read operations are allowed on this node]", "5000"),
		},
		{
			name: "string code",
			body: `{"error":{"message":"table missing","code":"4041"}}`,
			want: core.NewServerError("table missing", "4041"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			cluster, _ := newTestCluster(t, mock.BackendWithBody(tt.body))

			_, err := cluster.Query(context.Background(), "insert into mytable (a) values (1)")
			r.Error(err)

			var serverErr *core.ServerError
			r.ErrorAs(err, &serverErr)
			r.Equal(tt.want.Message, serverErr.Message)
			r.Equal(tt.want.Code, serverErr.Code)
			r.ErrorIs(err, tt.want)
		})
	}
}

func TestQuery_InvalidJSON(t *testing.T) {
	r := require.New(t)

	cluster, _ := newTestCluster(t, mock.BackendWithBody("this is wrong my friend :{"))

	_, err := cluster.Query(context.Background(), "select 1")
	r.Error(err)

	var serverErr *core.ServerError
	r.ErrorAs(err, &serverErr)
	r.Equal("Invalid JSON was returned: this is wrong my friend :{", serverErr.Message)
	r.Equal("500", serverErr.Code)
	r.Equal("Error [Code 500]: Invalid JSON was returned: this is wrong my friend :{", serverErr.Error())
}

func TestQuery_UnexpectedShape(t *testing.T) {
	r := require.New(t)

	cluster, _ := newTestCluster(t, mock.BackendWithBody(`{"something":"else"}`))

	_, err := cluster.Query(context.Background(), "select 1")
	r.Error(err)

	var serverErr *core.ServerError
	r.ErrorAs(err, &serverErr)
	r.Equal("500", serverErr.Code)
}

func TestQuery_TransportFailureStaysTyped(t *testing.T) {
	r := require.New(t)

	cause := errors.New("connection refused")
	cluster, _ := newTestCluster(t, mock.BackendWithExecuteErr(core.NewTransportError(cause)))

	_, err := cluster.Query(context.Background(), "select 1")
	r.Error(err)

	var backendErr *core.BackendError
	r.ErrorAs(err, &backendErr)
	r.ErrorIs(err, cause)

	var serverErr *core.ServerError
	r.False(errors.As(err, &serverErr))
}

func TestBulkQuery_Success(t *testing.T) {
	r := require.New(t)

	cluster, backend := newTestCluster(t, mock.BackendWithBody(
		`{"cols":[],"results":[{"rowcount":1},{"rowcount":2},{"rowcount":3}],"duration":0.206}`,
	))

	result, err := cluster.BulkQuery(context.Background(), "insert into mytable (a) values (?)", [][]any{{1}, {2}, {3}})
	r.NoError(err)

	r.Equal(0.206, result.Duration)
	r.Equal([]int64{1, 2, 3}, result.RowCounts)

	calls := backend.ExecuteCalls()
	r.Len(calls, 1)
	r.JSONEq(`{"stmt":"insert into mytable (a) values (?)","bulk_args":[[1],[2],[3]]}`, calls[0].Payload)
}

func TestBulkQuery_ServerError(t *testing.T) {
	r := require.New(t)

	cluster, _ := newTestCluster(t, mock.BackendWithBody(
		`{"error":{"message":"bulk failed","code":4000}}`,
	))

	_, err := cluster.BulkQuery(context.Background(), "insert into t values (?)", [][]any{{1}})
	r.ErrorIs(err, core.NewServerError("bulk failed", "4000"))
}

func TestQuery_DurationMatchesResponse(t *testing.T) {
	tests := []struct {
		body     string
		duration float64
	}{
		{`{"cols":[],"rows":[],"duration":0}`, 0},
		{`{"cols":[],"rows":[],"duration":0.206}`, 0.206},
		{`{"cols":[],"rows":[],"duration":1234.5}`, 1234.5},
	}
	for _, tt := range tests {
		cluster, _ := newTestCluster(t, mock.BackendWithBody(tt.body))

		rows, err := cluster.Query(context.Background(), "select 1")
		assert.NoError(t, err)
		assert.Equal(t, tt.duration, rows.Duration)
	}
}
