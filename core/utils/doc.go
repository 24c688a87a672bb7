// Package utils holds helpers for turning scraped tracker pages into
// numbers: counts with thousands separators, "x / y" fractions and values
// carried in URLs.
package utils
