package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport returns a canned response (or error) per resource name.
type fakeTransport struct {
	responses map[string]*Response
	errs      map[string]error
}

func (f *fakeTransport) Probe(ctx context.Context, resource string, limit int) (*Response, error) {
	if err, ok := f.errs[resource]; ok {
		return nil, err
	}
	if resp, ok := f.responses[resource]; ok {
		return resp, nil
	}
	return &Response{Class: StatusNotFound, StatusCode: 404, Detail: "resource not found"}, nil
}

func TestClassifyMappingIsTotal(t *testing.T) {
	ft := &fakeTransport{
		responses: map[string]*Response{
			"users":     {Class: StatusSuccess, StatusCode: 200, Rows: []Record{{"id": 1}}},
			"empty":     {Class: StatusSuccess, StatusCode: 200, Rows: []Record{}},
			"auth":      {Class: StatusAuthRequired, StatusCode: 401, Detail: "authentication required"},
			"forbidden": {Class: StatusForbidden, StatusCode: 403, Detail: "access forbidden"},
			"missing":   {Class: StatusNotFound, StatusCode: 404, Detail: "resource not found"},
			"teapot":    {Class: StatusOther, StatusCode: 418, Detail: "HTTP 418"},
			"malformed": {Class: StatusSuccess, StatusCode: 200, Rows: nil, Detail: "malformed response body"},
		},
		errs: map[string]error{
			"unreachable": errors.New("dial tcp: connection refused"),
			"slow":        context.DeadlineExceeded,
		},
	}
	c := NewClassifier(ft, 1)
	ctx := context.Background()

	tests := []struct {
		resource string
		want     Class
	}{
		{"users", Accessible},
		{"empty", Accessible}, // empty collection still counts as exposed
		{"auth", Protected},
		{"forbidden", Protected},
		{"missing", Absent},
		{"teapot", Indeterminate},
		{"malformed", Indeterminate}, // never promoted to Accessible
		{"unreachable", Indeterminate},
		{"slow", Indeterminate},
	}
	for _, tt := range tests {
		out := c.Classify(ctx, tt.resource)
		assert.Equal(t, tt.want, out.Class, "resource %s", tt.resource)
		assert.Equal(t, tt.resource, out.Resource)
	}
}

func TestClassifyPreservesDetail(t *testing.T) {
	ft := &fakeTransport{errs: map[string]error{"down": errors.New("connection reset by peer")}}
	c := NewClassifier(ft, 1)

	out := c.Classify(context.Background(), "down")
	require.Equal(t, Indeterminate, out.Class)
	assert.Contains(t, out.Detail, "connection reset")
	assert.Zero(t, out.StatusCode)
}

func TestClassifyKeepsSample(t *testing.T) {
	rows := []Record{{"id": 1, "name": "a"}}
	ft := &fakeTransport{responses: map[string]*Response{
		"users": {Class: StatusSuccess, StatusCode: 200, Rows: rows},
	}}
	c := NewClassifier(ft, 1)

	out := c.Classify(context.Background(), "users")
	require.Equal(t, Accessible, out.Class)
	assert.Equal(t, rows, out.Sample)
	assert.Equal(t, 200, out.StatusCode)
}
