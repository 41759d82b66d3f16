// Package scraper downloads heat pages from the timing site and flattens
// every table row on the page into a domain.RawTable.
//
// Two fetchers are provided. ChromeFetcher drives a headless browser and is
// needed when the timing page renders its tables client side. HTTPFetcher
// issues a plain GET and is enough for server rendered pages and tests.
package scraper
