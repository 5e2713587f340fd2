package routeros

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pior/routeros/internal/testutils"
	"github.com/pior/routeros/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected string
	}{
		{
			name:     "records",
			result:   NewResult([]wire.Record{{"name": "alice", "bytesIn": int64(120), "disabled": false}}),
			expected: `{"success":true,"data":[{"bytesIn":120,"disabled":false,"name":"alice"}]}`,
		},
		{
			name:     "no rows",
			result:   NewResult([]wire.Record{}),
			expected: `{"success":true,"data":[]}`,
		},
		{
			name:     "words",
			result:   NewResult([]string{"!done", ""}),
			expected: `{"success":true,"data":["!done",""]}`,
		},
		{
			name:     "login failure",
			result:   NewErrorResult(&LoginError{Message: "invalid user name or password (6)"}),
			expected: `{"success":false,"error":{"kind":"login","message":"routeros: login failed: invalid user name or password (6)"}}`,
		},
		{
			name:     "failure with detail",
			result:   NewErrorResult(&LoginError{Err: ErrNoData}),
			expected: `{"success":false,"error":{"kind":"login","message":"routeros: login failed: routeros: no data received","detail":"routeros: no data received"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(b))
		})
	}
}

func TestSession_Execute(t *testing.T) {
	router := testutils.NewFakeRouter(t, testutils.LoginHandler("admin", "secret",
		[]string{"=name=alice", "=password=pw1"},
	))
	ctx := context.Background()

	session := NewSession(testConfig(router.Addr()))

	result := session.Execute(ctx, hotspotPrint, ShapeRecords)
	require.True(t, result.Success)
	b, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[{"name":"alice","password":"pw1"}]}`, string(b))

	result = session.Execute(ctx, hotspotPrint, ShapeWords)
	require.True(t, result.Success)
	assert.Equal(t, []string{"!re", "=name=alice", "=password=pw1", "", "!done", ""}, result.Data)
}

func TestSession_ExecuteFailure(t *testing.T) {
	router := testutils.NewFakeRouter(t, testutils.LoginHandler("admin", "secret"))

	config := testConfig(router.Addr())
	config.Password = "wrong"
	session := NewSession(config)

	result := session.Execute(context.Background(), hotspotPrint, ShapeRecords)
	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	require.NotNil(t, result.Error)
	assert.Equal(t, KindLogin, result.Error.Kind)
	assert.Contains(t, result.Error.Message, "invalid user name or password")
}
