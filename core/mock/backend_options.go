package mock

import "github.com/cratedb/crate-go/core"

type backendConfig struct {
	body        string
	executeErr  error
	outcome     core.Outcome
	blobContent []byte
	blobErr     error
}

type BackendOption func(*backendConfig)

// BackendWithBody sets the raw response body returned by Execute.
func BackendWithBody(body string) BackendOption {
	return func(c *backendConfig) {
		c.body = body
	}
}

// BackendWithExecuteErr makes every Execute call fail with the given
// error.
func BackendWithExecuteErr(err error) BackendOption {
	return func(c *backendConfig) {
		c.executeErr = err
	}
}

// BackendWithOutcome sets the outcome reported by every blob call.
func BackendWithOutcome(outcome core.Outcome) BackendOption {
	return func(c *backendConfig) {
		c.outcome = outcome
	}
}

// BackendWithBlobContent sets the content streamed by FetchBlob.
func BackendWithBlobContent(content []byte) BackendOption {
	return func(c *backendConfig) {
		c.blobContent = content
	}
}

// BackendWithBlobErr makes every blob call fail with the given error.
func BackendWithBlobErr(err error) BackendOption {
	return func(c *backendConfig) {
		c.blobErr = err
	}
}
