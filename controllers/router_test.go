package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srad/channelnotify/network"
	"github.com/srad/channelnotify/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	handler http.Handler
	out     *bytes.Buffer
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	out := &bytes.Buffer{}
	service := services.NewChannelService(services.WithOutput(out))
	token, err := services.CreateToken(testSecret, "test", time.Hour)
	require.NoError(t, err)

	return &testServer{
		handler: Setup(service, network.NewHub(10), testSecret),
		out:     out,
		token:   token,
	}
}

func (s *testServer) do(method, path string, body interface{}, authorized bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func TestUploadScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/channels", gin.H{"channelName": "CoderArmy"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/channels/CoderArmy/subscribers", gin.H{"name": "Varun", "kind": "print"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var varun services.SubscriberInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &varun))

	w = s.do(http.MethodPost, "/api/v1/channels/CoderArmy/subscribers", gin.H{"name": "Tarun", "kind": "print"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/channels/CoderArmy/videos", gin.H{"title": "Observer Pattern Tutorial"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, strings.Count(s.out.String(), "Observer Pattern Tutorial"))

	w = s.do(http.MethodDelete, "/api/v1/channels/CoderArmy/subscribers/"+varun.SubscriberId, nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s.out.Reset()
	w = s.do(http.MethodPost, "/api/v1/channels/CoderArmy/videos", gin.H{"title": "Decorator Pattern Tutorial"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Hey Tarun,\nCheckout our new Video : Decorator Pattern Tutorial\n\n", s.out.String())

	w = s.do(http.MethodGet, "/api/v1/channels/coderarmy", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var info services.ChannelInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Len(t, info.Subscribers, 1)
	assert.Equal(t, "Tarun", info.Subscribers[0].Name)
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/channels", gin.H{"channelName": "CoderArmy"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/channels", strings.NewReader(`{"channelName":"CoderArmy"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, err := services.CreateToken("other-secret", "test", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/channels", strings.NewReader(`{"channelName":"CoderArmy"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	w = s.do(http.MethodGet, "/api/v1/channels", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorCodes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/channels", gin.H{"channelName": ""}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/channels", gin.H{"channelName": "coder army"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/channels", gin.H{"channelName": "CoderArmy"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/api/v1/channels", gin.H{"channelName": "coderarmy"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/channels/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/channels/nope/videos", gin.H{"title": "t"}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/channels/CoderArmy/videos", gin.H{"title": ""}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/channels/CoderArmy/subscribers", gin.H{"name": "Varun", "kind": "fax"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/channels/CoderArmy/subscribers/unknown", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/subscribers/unknown/inbox", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttachExistingSubscriber(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"a", "b"} {
		w := s.do(http.MethodPost, "/api/v1/channels", gin.H{"channelName": name}, true)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(http.MethodPost, "/api/v1/channels/a/subscribers", gin.H{"name": "Varun", "kind": "print"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var varun services.SubscriberInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &varun))

	w = s.do(http.MethodPut, "/api/v1/channels/b/subscribers/"+varun.SubscriberId, nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/channels/b/videos", gin.H{"title": "Shared"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hey Varun,\nCheckout our new Video : Shared\n\n", s.out.String())
}
