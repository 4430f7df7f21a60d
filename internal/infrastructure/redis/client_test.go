package redis

import (
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	config "github.com/avatarctic/movie-recommendation-service/go/configs"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")

	client, err := NewRedisClient(&config.RedisConfig{Host: host, Port: port, DialTimeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(&config.RedisConfig{Host: host, Port: port, DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
}
