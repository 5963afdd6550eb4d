package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveFetch(t *testing.T) {
	okBefore := testutil.ToFloat64(PagesFetched.WithLabelValues("start", "ok"))
	errBefore := testutil.ToFloat64(PagesFetched.WithLabelValues("link", "error"))

	ObserveFetch("start", time.Now(), nil)
	ObserveFetch("link", time.Now(), errors.New("refused"))

	require.Equal(t, okBefore+1, testutil.ToFloat64(PagesFetched.WithLabelValues("start", "ok")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(PagesFetched.WithLabelValues("link", "error")))
}

func TestServeExposesMetricsUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)
	require.True(t, strings.Contains(body, "scriptscraper_links_collected_total"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not shut down")
	}
}
