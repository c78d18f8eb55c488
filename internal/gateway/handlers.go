package gateway

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"go.uber.org/zap"
)

type configResponse struct {
	Address        string   `json:"address"`
	Owner          string   `json:"owner"`
	MonthlyPrice   *big.Int `json:"monthlyPrice"`
	QuarterlyPrice *big.Int `json:"quarterlyPrice"`
	AnnualPrice    *big.Int `json:"annualPrice"`
	Bump           *big.Int `json:"bump"`
}

type subscriptionResponse struct {
	Address     string    `json:"address"`
	Subscriber  string    `json:"subscriber"`
	Plan        string    `json:"plan"`
	ExpiresAt   time.Time `json:"expiresAt"`
	PausedSince *int64    `json:"pausedSince,omitempty"`
	Status      string    `json:"status"`
	Active      bool      `json:"active"`
	Remaining   string    `json:"remaining"`
	Bump        *big.Int  `json:"bump"`
}

type addressResponse struct {
	Address string `json:"address"`
	Key     string `json:"key"`
	Bump    byte   `json:"bump"`
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const statusAbsent = "absent"

func (g *Gateway) getConfig(w http.ResponseWriter, _ *http.Request) {
	c, err := g.config()
	if err != nil {
		g.fail(w, http.StatusBadGateway, fmt.Errorf("read config: %w", err))
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, statusResponse{Status: statusAbsent})
		return
	}

	addr, _, err := subscription.ConfigAddress(g.contract)
	if err != nil {
		g.fail(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		Address:        subscription.EncodeAddress(addr),
		Owner:          address.Uint160ToString(c.Owner),
		MonthlyPrice:   c.MonthlyPrice,
		QuarterlyPrice: c.QuarterlyPrice,
		AnnualPrice:    c.AnnualPrice,
		Bump:           c.Bump,
	})
}

func (g *Gateway) getSubscription(w http.ResponseWriter, r *http.Request) {
	subscriber, err := parseAccount(chi.URLParam(r, "subscriber"))
	if err != nil {
		g.fail(w, http.StatusBadRequest, err)
		return
	}

	s, err := g.subscription(subscriber)
	if err != nil {
		g.fail(w, http.StatusBadGateway, fmt.Errorf("read subscription: %w", err))
		return
	}
	if s == nil {
		writeJSON(w, http.StatusNotFound, statusResponse{Status: statusAbsent})
		return
	}

	addr, _, err := subscription.SubscriptionAddress(g.contract, subscriber)
	if err != nil {
		g.fail(w, http.StatusInternalServerError, err)
		return
	}

	now := g.now()
	resp := subscriptionResponse{
		Address:    subscription.EncodeAddress(addr),
		Subscriber: address.Uint160ToString(s.Subscriber),
		Plan:       subscription.Plan(s.Plan.Int64()).String(),
		ExpiresAt:  s.ExpirationTime().UTC(),
		Status:     s.Status(now).String(),
		Active:     subscription.IsActive(s, now),
		Remaining:  s.Remaining(now).String(),
		Bump:       s.Bump,
	}
	if s.IsPaused() {
		since := s.PausedSince.Int64()
		resp.PausedSince = &since
	}

	writeJSON(w, http.StatusOK, resp)
}

func (g *Gateway) getConfigAddress(w http.ResponseWriter, _ *http.Request) {
	addr, bump, err := subscription.ConfigAddress(g.contract)
	if err != nil {
		g.fail(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, newAddressResponse(addr, bump))
}

func (g *Gateway) getSubscriptionAddress(w http.ResponseWriter, r *http.Request) {
	subscriber, err := parseAccount(chi.URLParam(r, "subscriber"))
	if err != nil {
		g.fail(w, http.StatusBadRequest, err)
		return
	}

	addr, bump, err := subscription.SubscriptionAddress(g.contract, subscriber)
	if err != nil {
		g.fail(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, newAddressResponse(addr, bump))
}

func newAddressResponse(addr util.Uint160, bump byte) addressResponse {
	return addressResponse{
		Address: subscription.EncodeAddress(addr),
		Key:     addr.StringBE(),
		Bump:    bump,
	}
}

// parseAccount parses Neo address or LE hex script hash.
func parseAccount(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid account %q", s)
	}

	return h, nil
}

func (g *Gateway) fail(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		g.log.Error("request failed", zap.Error(err))
	}

	writeJSON(w, code, statusResponse{Status: "error", Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
