package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerRoundTrip(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, GetViewer(r))
	assert.Nil(t, ViewerID(r))

	r = SetViewer(r, &Viewer{UserID: 9, Username: "jake", Token: "t"})
	viewer := GetViewer(r)
	require.NotNil(t, viewer)
	assert.Equal(t, "jake", viewer.Username)

	id := ViewerID(r)
	require.NotNil(t, id)
	assert.Equal(t, int64(9), *id)
}

func TestGetValueFromContextWrongType(t *testing.T) {
	r := AddValueToContext(httptest.NewRequest("GET", "/", nil), viewerCtxKey, "not a viewer")
	_, ok := GetValueFromContext[*Viewer](r, viewerCtxKey)
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, GetRequestID(r))
	assert.Equal(t, "abc", GetRequestID(SetRequestID(r, "abc")))
}
