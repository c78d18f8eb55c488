package gateway

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	testContract   = util.Uint160{0xde, 0xad, 0xbe, 0xef}
	testOwner      = util.Uint160{1, 2, 3}
	testSubscriber = util.Uint160{4, 5, 6}
	testNow        = time.Unix(1_700_000_000, 0)
)

type testReader struct {
	config        *subscription.CreatorConfig
	subscriptions map[util.Uint160]*subscription.Subscription
	err           error

	configCalls, subscriptionCalls int
}

func (x *testReader) GetConfig() (*subscription.CreatorConfig, error) {
	x.configCalls++
	return x.config, x.err
}

func (x *testReader) GetSubscription(subscriber util.Uint160) (*subscription.Subscription, error) {
	x.subscriptionCalls++
	if x.err != nil {
		return nil, x.err
	}
	return x.subscriptions[subscriber], nil
}

func newTestGateway(t *testing.T, r Reader) *Gateway {
	g, err := New(Prm{
		Logger:         zaptest.NewLogger(t),
		Reader:         r,
		Contract:       testContract,
		CacheTTL:       time.Minute,
		AllowedOrigins: []string{"*"},
		Registry:       prometheus.NewRegistry(),
		Now:            func() time.Time { return testNow },
	})
	require.NoError(t, err)

	return g
}

func get(t *testing.T, h http.Handler, path string, dst any) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if dst != nil {
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
	}

	return rec.Code
}

func testConfig() *subscription.CreatorConfig {
	return &subscription.CreatorConfig{
		Owner:          testOwner,
		MonthlyPrice:   big.NewInt(10),
		QuarterlyPrice: big.NewInt(25),
		AnnualPrice:    big.NewInt(90),
		Bump:           big.NewInt(255),
	}
}

func testSubscription(pausedSince, expiresAt int64) *subscription.Subscription {
	return &subscription.Subscription{
		Subscriber:  testSubscriber,
		PausedSince: big.NewInt(pausedSince),
		Plan:        big.NewInt(int64(subscription.PlanQuarterly)),
		ExpiresAt:   big.NewInt(expiresAt),
		Bump:        big.NewInt(254),
	}
}

func TestNew(t *testing.T) {
	_, err := New(Prm{CacheTTL: time.Second})
	require.Error(t, err)

	_, err = New(Prm{Reader: new(testReader)})
	require.Error(t, err)

	reg := prometheus.NewRegistry()
	_, err = New(Prm{Reader: new(testReader), CacheTTL: time.Second, Registry: reg})
	require.NoError(t, err)

	// Metrics are already registered.
	_, err = New(Prm{Reader: new(testReader), CacheTTL: time.Second, Registry: reg})
	require.Error(t, err)
}

func TestHealthz(t *testing.T) {
	g := newTestGateway(t, new(testReader))

	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestGetConfig(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		r := new(testReader)
		g := newTestGateway(t, r)

		var resp statusResponse
		require.Equal(t, http.StatusNotFound, get(t, g, "/config", &resp))
		require.Equal(t, statusAbsent, resp.Status)

		// Absence is not cached.
		get(t, g, "/config", nil)
		require.Equal(t, 2, r.configCalls)
	})

	t.Run("rpc failure", func(t *testing.T) {
		r := &testReader{err: errors.New("connection refused")}
		g := newTestGateway(t, r)

		var resp statusResponse
		require.Equal(t, http.StatusBadGateway, get(t, g, "/config", &resp))
		require.Equal(t, "error", resp.Status)
		require.Contains(t, resp.Error, "connection refused")
		require.Equal(t, 1.0, testutil.ToFloat64(g.metrics.rpcErrors))
	})

	t.Run("found", func(t *testing.T) {
		r := &testReader{config: testConfig()}
		g := newTestGateway(t, r)

		var resp configResponse
		require.Equal(t, http.StatusOK, get(t, g, "/config", &resp))

		addr, _, err := subscription.ConfigAddress(testContract)
		require.NoError(t, err)

		require.Equal(t, subscription.EncodeAddress(addr), resp.Address)
		require.Equal(t, address.Uint160ToString(testOwner), resp.Owner)
		require.Zero(t, resp.MonthlyPrice.Cmp(big.NewInt(10)))
		require.Zero(t, resp.QuarterlyPrice.Cmp(big.NewInt(25)))
		require.Zero(t, resp.AnnualPrice.Cmp(big.NewInt(90)))
		require.Zero(t, resp.Bump.Cmp(big.NewInt(255)))

		get(t, g, "/config", nil)
		require.Equal(t, 1, r.configCalls)
	})
}

func TestGetSubscription(t *testing.T) {
	now := testNow.Unix()

	for _, tc := range []struct {
		name   string
		sub    *subscription.Subscription
		status subscription.Status
		active bool
		left   time.Duration
	}{
		{name: "active", sub: testSubscription(0, now+60), status: subscription.StatusActive, active: true, left: time.Minute},
		{name: "paused", sub: testSubscription(now-10, now+50), status: subscription.StatusPaused, left: time.Minute},
		{name: "expired", sub: testSubscription(0, now), status: subscription.StatusExpired},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := &testReader{subscriptions: map[util.Uint160]*subscription.Subscription{testSubscriber: tc.sub}}
			g := newTestGateway(t, r)

			for _, account := range []string{
				address.Uint160ToString(testSubscriber),
				testSubscriber.StringLE(),
			} {
				var resp subscriptionResponse
				require.Equal(t, http.StatusOK, get(t, g, "/subscriptions/"+account, &resp))

				require.Equal(t, address.Uint160ToString(testSubscriber), resp.Subscriber)
				require.Equal(t, "quarterly", resp.Plan)
				require.Equal(t, tc.status.String(), resp.Status)
				require.Equal(t, tc.active, resp.Active)
				require.Equal(t, tc.left.String(), resp.Remaining)
				require.True(t, resp.ExpiresAt.Equal(time.Unix(tc.sub.ExpiresAt.Int64(), 0)))
				require.Equal(t, tc.sub.IsPaused(), resp.PausedSince != nil)
			}

			require.Equal(t, 2, r.subscriptionCalls)
		})
	}

	t.Run("changes are visible at once", func(t *testing.T) {
		r := &testReader{subscriptions: map[util.Uint160]*subscription.Subscription{
			testSubscriber: testSubscription(0, now+60),
		}}
		g := newTestGateway(t, r)
		path := "/subscriptions/" + testSubscriber.StringLE()

		var resp subscriptionResponse
		require.Equal(t, http.StatusOK, get(t, g, path, &resp))
		require.True(t, resp.Active)

		r.subscriptions[testSubscriber] = testSubscription(now-1, now+60)

		require.Equal(t, http.StatusOK, get(t, g, path, &resp))
		require.False(t, resp.Active)
		require.Equal(t, subscription.StatusPaused.String(), resp.Status)

		delete(r.subscriptions, testSubscriber)

		var absent statusResponse
		require.Equal(t, http.StatusNotFound, get(t, g, path, &absent))
		require.Equal(t, statusAbsent, absent.Status)
	})

	t.Run("absent", func(t *testing.T) {
		g := newTestGateway(t, new(testReader))

		var resp statusResponse
		require.Equal(t, http.StatusNotFound, get(t, g, "/subscriptions/"+testSubscriber.StringLE(), &resp))
		require.Equal(t, statusAbsent, resp.Status)
	})

	t.Run("invalid account", func(t *testing.T) {
		r := new(testReader)
		g := newTestGateway(t, r)

		var resp statusResponse
		require.Equal(t, http.StatusBadRequest, get(t, g, "/subscriptions/alice", &resp))
		require.Equal(t, "error", resp.Status)
		require.Zero(t, r.subscriptionCalls)
	})
}

func TestGetAddresses(t *testing.T) {
	g := newTestGateway(t, new(testReader))

	var resp addressResponse
	require.Equal(t, http.StatusOK, get(t, g, "/addresses/config", &resp))

	addr, bump, err := subscription.ConfigAddress(testContract)
	require.NoError(t, err)
	require.Equal(t, newAddressResponse(addr, bump), resp)

	require.Equal(t, http.StatusOK, get(t, g, "/addresses/subscriptions/"+address.Uint160ToString(testSubscriber), &resp))

	addr, bump, err = subscription.SubscriptionAddress(testContract, testSubscriber)
	require.NoError(t, err)
	require.Equal(t, newAddressResponse(addr, bump), resp)

	decoded, err := subscription.DecodeAddress(resp.Address)
	require.NoError(t, err)
	require.Equal(t, addr, decoded)

	require.Equal(t, http.StatusBadRequest, get(t, g, "/addresses/subscriptions/0x00", nil))
}

func TestMetrics(t *testing.T) {
	g := newTestGateway(t, &testReader{config: testConfig()})

	get(t, g, "/config", nil)
	get(t, g, "/config", nil)

	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `subscription_gateway_http_requests_total{method="GET",path="/config",status="200"} 2`)
	require.Contains(t, body, `subscription_gateway_cache_requests_total{result="hit"} 1`)
	require.Contains(t, body, `subscription_gateway_cache_requests_total{result="miss"} 1`)
	require.False(t, strings.Contains(body, `path="/metrics"`))
}

func TestCORS(t *testing.T) {
	g := newTestGateway(t, new(testReader))

	req := httptest.NewRequest(http.MethodGet, "/addresses/config", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()

	g.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
