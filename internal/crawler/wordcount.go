package crawler

import (
	"cmp"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// wordShards is the number of independently locked partitions of a
// WordAccumulator.
const wordShards = 32

type wordShard struct {
	mu     sync.Mutex
	counts map[string]int
}

// WordAccumulator sums word counts merged from many goroutines.
// Words are spread over independently locked shards so that tasks merging
// disjoint words rarely contend.
type WordAccumulator struct {
	shards [wordShards]wordShard
}

// NewWordAccumulator returns an empty WordAccumulator.
func NewWordAccumulator() *WordAccumulator {
	a := &WordAccumulator{}
	for i := range a.shards {
		a.shards[i].counts = make(map[string]int)
	}
	return a
}

// Merge adds every count in counts to the accumulated totals.
// Non-positive counts are ignored.
func (a *WordAccumulator) Merge(counts map[string]int) {
	for word, n := range counts {
		if n <= 0 {
			continue
		}
		shard := &a.shards[xxhash.Sum64String(word)%wordShards]
		shard.mu.Lock()
		shard.counts[word] += n
		shard.mu.Unlock()
	}
}

// Snapshot returns a copy of the accumulated totals.
func (a *WordAccumulator) Snapshot() map[string]int {
	out := make(map[string]int)
	for i := range a.shards {
		shard := &a.shards[i]
		shard.mu.Lock()
		for word, n := range shard.counts {
			out[word] = n
		}
		shard.mu.Unlock()
	}
	return out
}

// TopWords returns the n most popular words of counts.
//
// Words are ordered by count, highest first. Ties are broken by length,
// longest first, and then lexically. The result has min(n, len(counts))
// entries; n <= 0 yields an empty slice.
func TopWords(counts map[string]int, n int) []WordCount {
	if n <= 0 {
		return []WordCount{}
	}

	all := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		all = append(all, WordCount{Word: word, Count: count})
	}

	slices.SortFunc(all, compareWordCounts)

	if len(all) > n {
		all = all[:n]
	}
	return slices.Clip(all)
}

func compareWordCounts(a, b WordCount) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	if c := cmp.Compare(len(b.Word), len(a.Word)); c != 0 {
		return c
	}
	return cmp.Compare(a.Word, b.Word)
}
