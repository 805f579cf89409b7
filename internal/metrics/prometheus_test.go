package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestReporter(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, r *reporter){
		"counts converted images":         testCountsConverted,
		"counts failures by stage":        testCountsFailures,
		"does not push without a gateway": testSkipsPushWithoutGateway,
		"pushes to the gateway":           testPushesToGateway,
		"fails if the gateway rejects":    testFailsOnRejectedPush,
	} {
		t.Run(scenario, func(t *testing.T) {
			r, err := NewReporter(ServiceInfo{Engine: "png"})
			require.NoError(t, err)
			fn(t, r)
		})
	}
}

func testCountsConverted(t *testing.T, r *reporter) {
	r.ConversionSucceeded(0.25)

	require.Equal(t, 1.0, testutil.ToFloat64(r.conversionsTotal.WithLabelValues("png", statusConverted)))
	require.Equal(t, 0.0, testutil.ToFloat64(r.conversionsTotal.WithLabelValues("png", statusFailed)))
	require.Equal(t, 1, testutil.CollectAndCount(r.conversionDurationsHistogram))
}

func testCountsFailures(t *testing.T, r *reporter) {
	r.ConversionFailed("decode")
	r.ConversionFailed("decode")
	r.ConversionFailed("delete")

	require.Equal(t, 3.0, testutil.ToFloat64(r.conversionsTotal.WithLabelValues("png", statusFailed)))
	require.Equal(t, 2.0, testutil.ToFloat64(r.conversionFailures.WithLabelValues("png", "decode")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.conversionFailures.WithLabelValues("png", "delete")))
}

func testSkipsPushWithoutGateway(t *testing.T, r *reporter) {
	require.NoError(t, r.Push(context.Background(), Config{}))
}

func testPushesToGateway(t *testing.T, r *reporter) {
	var method, path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method, path = req.Method, req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r.ConversionSucceeded(0.1)
	require.NoError(t, r.Push(context.Background(), Config{PushGateway: server.URL, Job: "icon-convert"}))

	require.Equal(t, http.MethodPut, method)
	require.Equal(t, "/metrics/job/icon-convert", path)
	require.NotEmpty(t, body)
}

func testFailsOnRejectedPush(t *testing.T, r *reporter) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	require.Error(t, r.Push(context.Background(), Config{PushGateway: server.URL, Job: "icon-convert"}))
}
