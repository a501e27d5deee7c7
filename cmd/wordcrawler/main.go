// Package main provides the entry point for the wordcrawler CLI.
//
// wordcrawler crawls web pages from a set of starting URLs, following links
// up to a maximum depth and within a time budget, and reports the most
// popular words it found.
//
// Usage:
//
//	wordcrawler crawl https://example.com/
//	wordcrawler crawl -c crawl.yaml
//	wordcrawler history list
//
// See --help for all available options.
package main

// main is the entry point for wordcrawler.
func main() {
	Execute()
}
