// Package cache provides a bounded, thread-safe LRU map.
//
// The text package uses it to remember HarfBuzz ligature verdicts per
// font, size and word, so relaying out edited text only shapes new words.
//
//	c := cache.New[string, int](100)
//	c.Set("key", 42)
//	value, ok := c.Get("key")
package cache
