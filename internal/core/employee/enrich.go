package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultJoke  = "Would I rather be feared or loved? Easy. Both. I want people to be afraid of how much they love me."
	DefaultQuote = "Well, well, well, how the turntables."

	defaultFetchTimeout = 3 * time.Second
)

var errFetcherNotConfigured = errors.New("employee: fetcher not configured")

// JokeFetcher はランダムなジョークを取得します。
type JokeFetcher interface {
	FetchJoke(ctx context.Context) (string, error)
}

// QuoteFetcher はランダムな名言を取得します。
type QuoteFetcher interface {
	FetchQuote(ctx context.Context) (string, error)
}

// EnrichmentObserver は補完結果を受け取ります。メトリクス収集に使います。
type EnrichmentObserver interface {
	ObserveEnrichment(fallback bool)
}

// fetchOutcome は 2 つの取得結果をまとめたものです。
// bothFetched か anyFailed のどちらかで、部分的な成功は存在しません。
type fetchOutcome interface {
	isFetchOutcome()
}

type bothFetched struct {
	joke  string
	quote string
}

type anyFailed struct {
	err error
}

func (bothFetched) isFetchOutcome() {}
func (anyFailed) isFetchOutcome()   {}

// Enricher は作成時に favoriteJoke / favoriteQuote を補完します。
type Enricher struct {
	jokes    JokeFetcher
	quotes   QuoteFetcher
	timeout  time.Duration
	observer EnrichmentObserver
}

// EnricherOption は Enricher の任意設定です。
type EnricherOption func(*Enricher)

// WithFetchTimeout は各取得処理のタイムアウトを設定します。
func WithFetchTimeout(d time.Duration) EnricherOption {
	return func(e *Enricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithObserver は補完結果の通知先を設定します。
func WithObserver(o EnrichmentObserver) EnricherOption {
	return func(e *Enricher) {
		e.observer = o
	}
}

// NewEnricher は Enricher を生成します。
func NewEnricher(jokes JokeFetcher, quotes QuoteFetcher, opts ...EnricherOption) *Enricher {
	e := &Enricher{jokes: jokes, quotes: quotes, timeout: defaultFetchTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich はジョークと名言を並行して取得し、ペイロードに設定します。
// 両方成功した場合は呼び出し元の値を優先し、どちらかが失敗した場合は
// 呼び出し元の値を無視して両方を既定値で上書きします。エラーは返しません。
func (e *Enricher) Enrich(ctx context.Context, p Payload) Payload {
	switch out := e.fetch(ctx).(type) {
	case bothFetched:
		e.observe(false)
		if deref(p.FavoriteJoke) == "" {
			joke := out.joke
			p.FavoriteJoke = &joke
		}
		if deref(p.FavoriteQuote) == "" {
			quote := out.quote
			p.FavoriteQuote = &quote
		}
	case anyFailed:
		e.observe(true)
		log.Warn().Err(out.err).Msg("enrichment failed, using default joke and quote")
		joke, quote := DefaultJoke, DefaultQuote
		p.FavoriteJoke = &joke
		p.FavoriteQuote = &quote
	}
	return p
}

func (e *Enricher) fetch(ctx context.Context) fetchOutcome {
	if e.jokes == nil || e.quotes == nil {
		return anyFailed{err: errFetcherNotConfigured}
	}

	var joke, quote string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, e.timeout)
		defer cancel()

		j, err := e.jokes.FetchJoke(fctx)
		if err != nil {
			return fmt.Errorf("fetch joke: %w", err)
		}
		joke = j
		return nil
	})

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gctx, e.timeout)
		defer cancel()

		q, err := e.quotes.FetchQuote(fctx)
		if err != nil {
			return fmt.Errorf("fetch quote: %w", err)
		}
		quote = q
		return nil
	})

	if err := g.Wait(); err != nil {
		return anyFailed{err: err}
	}
	return bothFetched{joke: joke, quote: quote}
}

func (e *Enricher) observe(fallback bool) {
	if e.observer != nil {
		e.observer.ObserveEnrichment(fallback)
	}
}
