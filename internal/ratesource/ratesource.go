package ratesource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/logger"
	"github.com/cloud-ru/mcp-fixed-income-go/internal/metrics"
	"github.com/cloud-ru/mcp-fixed-income-go/pkg/utils"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Provider источник текущей ставки CDI (% годовых).
// Любая ошибка превращается в "нет значения".
type Provider interface {
	FetchReferenceRate(ctx context.Context) (float64, bool)
}

// Source откуда взята ставка, использованная в расчете
type Source string

const (
	SourceRequest Source = "request"
	SourceLive    Source = "live"
	SourceDefault Source = "default"
)

// Resolve выбирает ставку CDI: явно переданную, затем полученную от провайдера,
// затем значение по умолчанию из конфигурации
func Resolve(ctx context.Context, p Provider, explicit *float64, fallback float64) (float64, Source) {
	if explicit != nil {
		return *explicit, SourceRequest
	}
	if p != nil {
		if rate, ok := p.FetchReferenceRate(ctx); ok {
			return rate, SourceLive
		}
	}
	return fallback, SourceDefault
}

// sgsPoint точка серии SGS Банка Бразилии
type sgsPoint struct {
	Date  string `json:"data"`
	Value string `json:"valor"`
}

type BCBClient struct {
	c           *resty.Client
	url         string
	timeout     time.Duration
	rateLimiter ratelimit.Limiter

	logger logger.Logger
}

// NewBCBClient клиент SGS API; rpm ограничивает частоту запросов к источнику
func NewBCBClient(url string, timeout time.Duration, rpm int, log logger.Logger) *BCBClient {
	if rpm <= 0 {
		rpm = 1
	}

	client := resty.New().
		SetLogger(log).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &BCBClient{
		c:           client,
		url:         url,
		timeout:     timeout,
		rateLimiter: ratelimit.New(rpm, ratelimit.Per(time.Minute)),
		logger:      log,
	}
}

func (b *BCBClient) FetchReferenceRate(ctx context.Context) (float64, bool) {
	rate, err := b.fetch(ctx)
	if err != nil {
		metrics.ReferenceRateFetches.WithLabelValues("unavailable").Inc()
		b.logger.Warnf("%s: reference rate unavailable", err)
		return 0, false
	}
	metrics.ReferenceRateFetches.WithLabelValues("live").Inc()
	return rate, true
}

func (b *BCBClient) fetch(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: rate limiter wait", err)
	}

	var points []sgsPoint
	resp, err := b.c.R().
		SetResult(&points).
		SetContext(ctx).
		Get(b.url)
	if err != nil {
		return 0, fmt.Errorf("%w: can't send request for reference rate", err)
	}
	defer resp.Body.Close()

	b.logger.Debugf("got response %s status: %s, %s", b.url, resp.Status(), resp.Duration())

	if !resp.IsSuccess() {
		return 0, fmt.Errorf("reference rate unexpected status: %s", resp.Status())
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("reference rate: empty series")
	}

	last := points[len(points)-1]
	rate, err := strconv.ParseFloat(strings.Replace(last.Value, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: can't parse reference rate %q", err, last.Value)
	}
	if !utils.IsFinite(rate) || rate < 0 {
		return 0, fmt.Errorf("reference rate out of range: %v", rate)
	}
	return rate, nil
}

// wait ждет разрешения лимитера, но не дольше ctx.
// Занятый слот лимитера освобождается уже без ожидающего.
func (b *BCBClient) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.rateLimiter.Take()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close освобождает ресурсы HTTP клиента
func (b *BCBClient) Close() error {
	return b.c.Close()
}
