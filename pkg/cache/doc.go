// Package cache provides a small generic LRU used to bound memoized work, such
// as compiled validation patterns coming from untrusted schema sources.
//
//	patterns := cache.NewLRU[string, *regexp.Regexp](512)
//	re, err := patterns.GetOrCreate(expr, func() (*regexp.Regexp, error) {
//	    return regexp.Compile(expr)
//	})
package cache
