package hook

import (
	"regexp"
	"sync"
)

var (
	matcherCacheMu sync.RWMutex
	matcherCache   = map[string]*regexp.Regexp{}
)

// compiledMatcher compiles pattern once and caches it; hookconfig already
// validates every matcher at load time, so failures here are unexpected.
func compiledMatcher(pattern string) (*regexp.Regexp, error) {
	matcherCacheMu.RLock()
	re, ok := matcherCache[pattern]
	matcherCacheMu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	matcherCacheMu.Lock()
	matcherCache[pattern] = re
	matcherCacheMu.Unlock()
	return re, nil
}
