package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonConfigUnmarshal(t *testing.T) {
	data := []byte(`{
		"server_endpoint_addr": "http://ledger.example:9090",
		"request_timeout": "30s",
		"cache_db_path": "/tmp/fk.db"
	}`)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))

	assert.Equal(t, "http://ledger.example:9090", jc.ServerEndpointAddr)
	assert.Equal(t, 30*time.Second, jc.RequestTimeout.Duration)
	assert.Equal(t, "/tmp/fk.db", jc.CacheDBPath)
}
