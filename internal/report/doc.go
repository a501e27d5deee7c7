// Package report renders crawl results.
//
// Three writers are provided:
//   - JSONWriter: the result document {"wordCounts":{...},"urlsVisited":n},
//     with word counts kept in popularity order
//   - MarkdownWriter: a Markdown table and pie chart of the popular words
//   - SimpleWriter: human-readable text for terminal display
//
// Writers implement the Writer interface, so they can be used
// interchangeably. MultiWriter renders one result to several writers;
// WriteFile uses it to append a result to a file and copy it to other
// outputs such as the terminal.
package report
