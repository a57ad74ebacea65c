package usagetest

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkRecordsPayloads(t *testing.T) {
	sink := NewSink(t, http.StatusAccepted)

	body := []byte(`{"Data":{"method_name":"FeatureGroup.Insert","num_call":3,"error_message":null}}`)
	resp, err := http.Post(sink.URL(), "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Equal(t, 1, sink.Count())
	req := sink.Requests()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, body, req.Body)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "FeatureGroup.Insert", events[0].MethodName)
	assert.Equal(t, int64(3), events[0].NumCall)
	assert.Nil(t, events[0].ErrorMessage)
}

func TestSinkSkipsUndecodableBodies(t *testing.T) {
	sink := NewSink(t, http.StatusOK)

	resp, err := http.Post(sink.URL(), "text/plain", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, sink.Count())
	assert.Empty(t, sink.Events())
}
