// Package crawler provides the concurrent traversal engine of wordcrawler.
//
// # Architecture
//
// A crawl starts from a set of seed URLs and explores the link graph
// recursively. Every URL is explored by a crawl task that runs the
// following steps in order, each one short-circuiting the rest:
//
//  1. Deadline: a task that starts at or after the crawl deadline does nothing.
//  2. Depth: a task with no remaining depth does nothing.
//  3. Ignore filter: a URL that fully matches an ignore pattern is skipped
//     and is NOT recorded as visited.
//  4. Claim: the URL is atomically inserted into the visited set; the loser
//     of a race does nothing.
//  5. Fetch: the PageParser is called. A failure is logged and the URL
//     stays visited.
//  6. Merge: word counts are added to the shared accumulator.
//  7. Fan-out: one child task per link at depth-1, joined before the
//     parent task returns.
//
// # Components
//
//   - ParallelCrawler: the coordinator. Tasks run on goroutines, and a
//     weighted semaphore bounds how many of them execute steps 1-6 at the
//     same time. A task gives its slot back before waiting for its
//     children, so a deep tree never starves the pool.
//   - SequentialCrawler: the same task semantics on a single goroutine.
//   - VisitedSet: lock-free claim of URLs.
//   - WordAccumulator: sharded word counter.
//   - IgnoreFilter: full-match regular expression filter.
//
// # Cancellation
//
// The deadline is polled by every task before it does any work. Fetches
// already in flight when the deadline passes run to completion. The
// context given to Crawl is only expected to be cancelled by an operator
// interrupt; it is checked at the same point as the deadline.
//
// # Usage
//
//	c, err := crawler.NewParallelCrawler(pageParser,
//		crawler.WithMaxDepth(3),
//		crawler.WithTimeout(30*time.Second),
//		crawler.WithPopularWordCount(10),
//	)
//	if err != nil {
//		return err
//	}
//	result, err := c.Crawl(ctx, []string{"https://example.com"})
package crawler
