package profiler

import (
	"context"

	"github.com/nao1215/wordcrawler/internal/crawler"
)

// profiledParser measures every Parse call of the wrapped PageParser.
type profiledParser struct {
	profiler *Profiler
	typeName string
	delegate crawler.PageParser
}

// WrapParser returns a PageParser that records the time spent in
// delegate.Parse under "<delegate type>#Parse".
func WrapParser(p *Profiler, delegate crawler.PageParser) crawler.PageParser {
	return &profiledParser{
		profiler: p,
		typeName: TypeName(delegate),
		delegate: delegate,
	}
}

func (w *profiledParser) Parse(ctx context.Context, pageURL string) (*crawler.PageResult, error) {
	var result *crawler.PageResult
	err := w.profiler.Measure(w.typeName, "Parse", func() error {
		var err error
		result, err = w.delegate.Parse(ctx, pageURL)
		return err
	})
	return result, err
}

// profiledCrawler measures every Crawl call of the wrapped Crawler.
// MaxParallelism is not measured.
type profiledCrawler struct {
	profiler *Profiler
	typeName string
	delegate crawler.Crawler
}

// WrapCrawler returns a Crawler that records the time spent in
// delegate.Crawl under "<delegate type>#Crawl".
func WrapCrawler(p *Profiler, delegate crawler.Crawler) crawler.Crawler {
	return &profiledCrawler{
		profiler: p,
		typeName: TypeName(delegate),
		delegate: delegate,
	}
}

func (w *profiledCrawler) Crawl(ctx context.Context, startingURLs []string) (*crawler.Result, error) {
	var result *crawler.Result
	err := w.profiler.Measure(w.typeName, "Crawl", func() error {
		var err error
		result, err = w.delegate.Crawl(ctx, startingURLs)
		return err
	})
	return result, err
}

func (w *profiledCrawler) MaxParallelism() int {
	return w.delegate.MaxParallelism()
}
