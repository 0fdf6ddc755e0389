package service

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	pushdown "github.com/hugr-lab/pushdown-go"
)

const defaultCacheSize = 1024

// resultCache memoizes compile results. Compilation is pure in its inputs,
// so the key covers everything a result depends on.
type resultCache struct {
	lru *lru.Cache[uint64, pushdown.Result]
}

// newResultCache returns nil when size is negative.
func newResultCache(size int) (*resultCache, error) {
	if size < 0 {
		return nil, nil
	}
	if size == 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[uint64, pushdown.Result](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{lru: c}, nil
}

func (c *resultCache) get(key uint64) (pushdown.Result, bool) {
	if c == nil {
		return pushdown.Result{}, false
	}
	return c.lru.Get(key)
}

func (c *resultCache) add(key uint64, res pushdown.Result) {
	if c != nil {
		c.lru.Add(key, res)
	}
}

func (c *resultCache) len() float64 {
	if c == nil {
		return 0
	}
	return float64(c.lru.Len())
}

// cacheKey hashes the request. Strings are length prefixed so that field
// boundaries cannot be shifted between requests.
func cacheKey(req *CompileRequest) uint64 {
	h := xxhash.New()
	var buf [binary.MaxVarintLen64]byte
	str := func(s string) {
		n := binary.PutUvarint(buf[:], uint64(len(s)))
		_, _ = h.Write(buf[:n])
		_, _ = h.WriteString(s)
	}
	num := func(v int64) {
		n := binary.PutVarint(buf[:], v)
		_, _ = h.Write(buf[:n])
	}
	bit := func(b bool) {
		if b {
			num(1)
			return
		}
		num(0)
	}

	str(req.Backend)
	str(req.Table)
	str(req.Filter)
	num(int64(len(req.Columns)))
	for _, c := range req.Columns {
		str(c.Name)
		num(int64(c.Type))
		bit(c.Partition)
		bit(c.Excluded)
	}
	num(int64(len(req.Projection)))
	for _, p := range req.Projection {
		str(p)
	}
	return h.Sum64()
}
