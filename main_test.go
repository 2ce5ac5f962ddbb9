package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/stretchr/testify/assert"
)

func TestNewHTTPServer(t *testing.T) {
	handler := http.NewServeMux()
	server := newHTTPServer(&config.Config{Port: "9090"}, handler)

	assert.Equal(t, ":9090", server.Addr)
	assert.Same(t, handler, server.Handler)
	assert.Equal(t, 10*time.Second, server.ReadHeaderTimeout)
	assert.Positive(t, server.WriteTimeout)
}
