// Package database provides SQLite-based storage of crawl run history.
//
// Every finished crawl can be saved as a Run: its seeds, timing, the number
// of URLs visited and the popular word counts. The history command lists,
// shows and deletes stored runs.
//
// The store uses modernc.org/sqlite, a CGO-free driver, so the binary
// cross-compiles without a C toolchain. The database is a single file,
// wordcrawler.db, in the directory passed to Open.
package database
