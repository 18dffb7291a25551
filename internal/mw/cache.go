package mw

import (
	"bytes"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// CacheHeader reports whether a GET response came from the cache.
const CacheHeader = "X-Cache"

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache keeps successful GET responses keyed by request URI until
// they expire or a mutation flushes them.
type ResponseCache struct {
	store *cache.Cache
	ttl   time.Duration
	// generation counts flushes; a response is only stored if no flush
	// happened while it was being produced.
	generation atomic.Uint64
}

// NewResponseCache creates a cache whose entries live for ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Len returns the number of cached responses, expired ones included.
func (rc *ResponseCache) Len() int {
	return rc.store.ItemCount()
}

// Flush drops every cached response.
func (rc *ResponseCache) Flush() {
	rc.generation.Add(1)
	rc.store.Flush()
}

// Serve answers GET requests from the cache and records 2xx responses.
func (rc *ResponseCache) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if resp, found := rc.store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set(CacheHeader, "HIT")
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		c.Writer.Header().Set(CacheHeader, "MISS")
		gen := rc.generation.Load()
		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if blw.Status() >= 200 && blw.Status() < 300 && rc.generation.Load() == gen {
			headers := blw.Header().Clone()
			headers.Del(CacheHeader)
			rc.store.Set(key, cachedResponse{
				status:  blw.Status(),
				headers: headers,
				body:    blw.body.Bytes(),
			}, rc.ttl)
		}
	}
}

// Invalidate flushes the cache after any request that is not a read and
// did not fail.
func (rc *ResponseCache) Invalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() < http.StatusBadRequest {
			rc.Flush()
		}
	}
}
