package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, ok := ParseID(httprouter.Params{{Key: "id", Value: "42"}}, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, v := range []string{"", "0", "-3", "abc", "4.5"} {
		_, ok := ParseID(httprouter.Params{{Key: "id", Value: v}}, "id")
		assert.False(t, ok, v)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", ClientIP(r))

	r.RemoteAddr = "[::1]:5555"
	assert.Equal(t, "::1", ClientIP(r))
}

func TestContainsIgnoreCase(t *testing.T) {
	assert.True(t, ContainsIgnoreCase("Creamy Garlic Pasta", "garLIC"))
	assert.True(t, ContainsIgnoreCase("anything", ""))
	assert.False(t, ContainsIgnoreCase("Tea", "coffee"))
}

func TestSendResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, http.StatusOK, []int{1, 2}, "ok")

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["message"])
	assert.Len(t, body["data"], 2)
}

func TestGetUUID(t *testing.T) {
	a, b := GetUUID(), GetUUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
