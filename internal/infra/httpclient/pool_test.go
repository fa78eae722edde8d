package httpclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPooledClient_SharesTransport(t *testing.T) {
	a := NewPooledClient(5 * time.Second)
	b := NewPooledClient(time.Minute)

	assert.Equal(t, 5*time.Second, a.Timeout)
	assert.Equal(t, time.Minute, b.Timeout)
	assert.Same(t, a.Transport, b.Transport)
}
