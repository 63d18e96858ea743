package provider

import "sync"

// MapCache is a Cache safe for concurrent use.
type MapCache struct {
	m sync.Map
}

func (c *MapCache) Load(req Request) (any, bool) {
	return c.m.Load(req)
}

func (c *MapCache) Store(req Request, result any) {
	c.m.Store(req, result)
}

// Len counts the cached results.
func (c *MapCache) Len() int {
	n := 0

	c.m.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
