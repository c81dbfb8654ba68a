package engine

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metaseek/internal/httpclient"
)

const testUserAgent = "Mozilla/5.0 (X11; Linux x86_64) metaseek-test"

// newTestClient builds a transport client with delays short enough for
// tests.
func newTestClient(t *testing.T) *httpclient.Client {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	client, err := httpclient.New(httpclient.Options{
		MinDelay:    time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
		MaxRetries:  1,
		BackoffBase: time.Millisecond,
		Logger:      log,
	})
	require.NoError(t, err)
	return client
}

func TestBuildHeader(t *testing.T) {
	h, err := buildHeader(map[string]string{
		"User-Agent":   testUserAgent,
		"Referer":      "https://google.com/",
		"Content-Type": "application/x-www-form-urlencoded",
		"Cookie":       "ab_test_group=1; home=daily",
	})
	require.NoError(t, err)

	assert.Len(t, h, 4)
	assert.Equal(t, testUserAgent, h.Get("User-Agent"))
	assert.Equal(t, "https://google.com/", h.Get("Referer"))
	assert.Equal(t, "application/x-www-form-urlencoded", h.Get("Content-Type"))
	assert.Equal(t, "ab_test_group=1; home=daily", h.Get("Cookie"))
}

func TestBuildHeader_RejectsInvalidValue(t *testing.T) {
	_, err := buildHeader(map[string]string{
		"User-Agent": "bad\x00value",
	})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	engines, err := Registry()
	require.NoError(t, err)
	require.Len(t, engines, 2)

	names := []string{engines[0].Name(), engines[1].Name()}
	assert.ElementsMatch(t, []string{"qwant", "duckduckgo"}, names)
}
