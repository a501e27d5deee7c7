// Package profiler records how long wrapped operations take.
//
// Operations are identified by the name of the type that declares them and
// the operation name, joined as "Type#Method". Durations of repeated calls
// are summed. The report lists one line per operation in lexical order of
// the key:
//
//	Run at Mon, 02 Jan 2006 15:04:05 UTC
//	parser.Parser#Parse took 0m 1s 250ms
//	crawler.ParallelCrawler#Crawl took 0m 3s 12ms
//
// Decorators for crawler.PageParser and crawler.Crawler are provided; any
// other operation can be measured with Profiler.Measure.
package profiler
