package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// sqlRequest is the wire form of a statement sent to the /_sql endpoint.
type sqlRequest struct {
	Stmt     string `json:"stmt"`
	Args     any    `json:"args,omitempty"`
	BulkArgs any    `json:"bulk_args,omitempty"`
}

// sqlResponse covers both response shapes of the /_sql endpoint: a result
// set (cols/rows/duration), a bulk result (cols/results/duration) or a
// structured error. Cols is a pointer so that its mere presence can be
// detected - bulk responses carry an empty cols array.
type sqlResponse struct {
	Cols     *Header             `json:"cols"`
	Rows     [][]json.RawMessage `json:"rows"`
	Results  []bulkResultEntry   `json:"results"`
	Duration float64             `json:"duration"`
	Error    *sqlResponseError   `json:"error"`
}

type bulkResultEntry struct {
	RowCount int64 `json:"rowcount"`
}

type sqlResponseError struct {
	Message string `json:"message"`
	// the server reports the code as an integer, older proxies as a string
	Code json.RawMessage `json:"code"`
}

func (e *sqlResponseError) codeString() string {
	var s string
	if err := json.Unmarshal(e.Code, &s); err == nil {
		return s
	}
	return string(e.Code)
}

func invalidJSONError(body string) *ServerError {
	return NewServerError(fmt.Sprintf("Invalid JSON was returned: %s", body), "500")
}

// BulkResult holds the outcome of a bulk statement: one row count per
// parameter set, in request order.
type BulkResult struct {
	Duration  float64
	RowCounts []int64
}

// Query runs a single SQL statement with optional positional parameters
// and returns the decoded result set.
//
// Failures surface as either a *ServerError (the SQL engine reported an
// error or returned an undecodable body) or a *BackendError (the request
// never reached the engine).
func (c *Cluster) Query(ctx context.Context, stmt string, args ...any) (*RowSet, error) {
	var params any
	if len(args) > 0 {
		params = args
	}

	body, err := c.execSQL(ctx, &sqlRequest{Stmt: stmt, Args: params})
	if err != nil {
		return nil, err
	}

	var resp sqlResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, invalidJSONError(body)
	}

	switch {
	case resp.Cols != nil:
		return newRowSet(resp.Duration, *resp.Cols, resp.Rows), nil
	case resp.Error != nil:
		return nil, NewServerError(resp.Error.Message, resp.Error.codeString())
	default:
		// neither a result set nor an error - treat like a decode failure
		return nil, invalidJSONError(body)
	}
}

// BulkQuery runs a single SQL statement once per parameter set and
// returns the row count of each execution in order.
func (c *Cluster) BulkQuery(ctx context.Context, stmt string, bulkArgs [][]any) (*BulkResult, error) {
	body, err := c.execSQL(ctx, &sqlRequest{Stmt: stmt, BulkArgs: bulkArgs})
	if err != nil {
		return nil, err
	}

	var resp sqlResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, invalidJSONError(body)
	}

	switch {
	case resp.Cols != nil:
		rowCounts := make([]int64, 0, len(resp.Results))
		for _, r := range resp.Results {
			rowCounts = append(rowCounts, r.RowCount)
		}
		return &BulkResult{Duration: resp.Duration, RowCounts: rowCounts}, nil
	case resp.Error != nil:
		return nil, NewServerError(resp.Error.Message, resp.Error.codeString())
	default:
		return nil, invalidJSONError(body)
	}
}

// execSQL serializes the request, resolves a SQL endpoint and runs the
// statement through the backend. A transport failure is returned as the
// typed backend error instead of being decoded as a response body.
func (c *Cluster) execSQL(ctx context.Context, req *sqlRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", NewBackendError(fmt.Sprintf("could not encode statement parameters: %v", err))
	}

	return c.backend.Execute(ctx, c.endpoint(EndpointSQL), payload)
}
