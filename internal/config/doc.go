// Package config holds the wordcrawler configuration and loads it from its
// sources.
//
// Values are layered, lowest precedence first:
//  1. defaults from NewConfig
//  2. a YAML or JSON crawl file (LoadConfigFile, File.Apply)
//  3. a .env file and WORDCRAWLER_* environment variables (ApplyEnv)
//  4. command-line flags the user set explicitly
//
// The crawl file uses the keys startPages, ignoredUrls, ignoredWords,
// parallelism, implementationOverride, maxDepth, timeoutSeconds,
// popularWordCount, profileOutputPath and resultPath.
package config
