package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/akuzmin/marketdesk/src/models"
)

// Resolver locates a single option contract for an operator-supplied code,
// falling back to an exhaustive expiration sweep when the provider's default
// chain response misses.
type Resolver struct {
	Provider QuoteProvider
}

func NewResolver(p QuoteProvider) *Resolver {
	return &Resolver{Provider: p}
}

// GetOptionQuoteByCode runs the full pipeline: normalize, decode, build the
// contract symbol, fetch the default chain, match, then sweep candidate
// expirations against every known expiration parameter spelling. Requests go
// out strictly one at a time and the sweep stops at the first match; a failed
// sweep attempt counts as a non-match and is skipped, never retried. logFn
// receives operator-facing progress lines and may be nil.
func (r *Resolver) GetOptionQuoteByCode(ctx context.Context, underlying string, rawCode string, logFn func(string)) (*models.OptionQuote, error) {
	tracer := otel.Tracer("Resolver")
	_, span := tracer.Start(ctx, "GetOptionQuoteByCode")
	defer span.End()

	underlying = strings.ToLower(strings.TrimSpace(underlying))
	if underlying == "" {
		return nil, &models.InvalidInputError{Msg: "underlying symbol is empty"}
	}

	code := models.NormalizeOptionCode(rawCode)

	components, err := models.NewOptionCodeComponents(code)
	if err != nil {
		return nil, fmt.Errorf("Resolver.GetOptionQuoteByCode: failed to decode option code: %w", err)
	}

	symbol := models.NewOptionSymbol(underlying, components)

	params, err := r.Provider.DefaultParams(components)
	if err != nil {
		return nil, fmt.Errorf("Resolver.GetOptionQuoteByCode: failed to build default query: %w", err)
	}

	requestID := uuid.New()
	log.WithFields(log.Fields{
		"requestID": requestID,
		"provider":  r.Provider.Name(),
		"symbol":    symbol,
	}).Infof("resolving contract for code %s", code)

	payload, err := r.Provider.FetchChain(underlying, params)
	if err != nil {
		return nil, fmt.Errorf("Resolver.GetOptionQuoteByCode: failed to fetch default chain: %w", err)
	}

	if quote, found := r.Provider.FindContract(payload, code, symbol); found {
		r.finalize(quote, underlying, code, symbol, "", "")
		return quote, nil
	}

	expirations := r.Provider.Expirations(payload)
	if logFn != nil {
		logFn(fmt.Sprintf("Not found in default chain. expirations discovered: %d", len(expirations)))
	}

	if len(expirations) == 0 {
		return nil, &models.NotFoundError{Symbol: symbol, CandidatesTried: 0}
	}

	paramNames := r.Provider.ExpirationParamNames()
	tried := 0

	for _, exp := range expirations {
		for _, pname := range paramNames {
			tried++
			if logFn != nil && tried%10 == 0 {
				logFn(fmt.Sprintf("Trying expirations... attempts: %d", tried))
			}

			retry, err := r.Provider.FetchChain(underlying, map[string]string{pname: exp})
			if err != nil {
				// a failed attempt is a non-match, not an abort
				log.WithField("requestID", requestID).Debugf("sweep attempt %d (%s=%s) failed: %v", tried, pname, exp, err)
				continue
			}

			if quote, found := r.Provider.FindContract(retry, code, symbol); found {
				r.finalize(quote, underlying, code, symbol, exp, pname)
				return quote, nil
			}
		}
	}

	return nil, &models.NotFoundError{Symbol: symbol, CandidatesTried: len(expirations)}
}

func (r *Resolver) finalize(q *models.OptionQuote, underlying string, code models.OptionCode, symbol models.OptionSymbol, queriedExp, queriedParam string) {
	q.Underlying = underlying
	q.OptionCode = code
	if q.OptionSymbol == "" {
		q.OptionSymbol = string(symbol)
	}
	q.QueriedExpiration = queriedExp
	q.QueriedParam = queriedParam
	if q.Source == "" {
		q.Source = r.Provider.Name()
	}
}
