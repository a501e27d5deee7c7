// Package parser fetches web pages and extracts their words and links.
//
// The Parser type implements crawler.PageParser. It understands three kinds
// of addresses:
//   - http and https URLs, fetched with net/http
//   - file URLs, read from the local file system
//   - bare paths, treated like file URLs
//
// HTML documents are parsed with golang.org/x/net/html. Text inside
// script, style and noscript elements is not counted. Plain text documents
// contribute words but no links.
//
// # Words
//
// Text is split on every rune that is neither a letter nor a digit. Each
// word is normalised to Unicode NFC and lower-cased with golang.org/x/text.
// A word that fully matches one of the ignored word patterns is dropped.
//
// # Usage
//
//	p, err := parser.New(
//		parser.WithIgnoredWords([]string{`^.{1,3}$`}),
//		parser.WithRequestInterval(200*time.Millisecond),
//	)
//	if err != nil {
//		return err
//	}
//	page, err := p.Parse(ctx, "https://example.com")
package parser
