package meshio

import (
	"os"
	"slices"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"painter3d/internal/geom"
)

type cacheEntry struct {
	mesh    *geom.Mesh
	modTime time.Time
	size    int64
}

// Cache keeps parsed meshes keyed by path so that reloading a scene does not
// re-parse files that have not changed. Entries expire after the TTL.
type Cache struct {
	opts  Options
	items *ttlcache.Cache[string, cacheEntry]
}

func NewCache(ttl time.Duration, opts Options) *Cache {
	return &Cache{
		opts:  opts,
		items: ttlcache.New[string, cacheEntry](ttlcache.WithTTL[string, cacheEntry](ttl)),
	}
}

// Get returns a private copy of the mesh at path. The file is parsed again
// when it is not cached, has expired, or its size or modification time
// changed. A path that can no longer be read or parsed is dropped.
func (c *Cache) Get(path string) (*geom.Mesh, error) {
	fi, err := os.Stat(path)
	if err != nil {
		c.Invalidate(path)
		return nil, err
	}
	if it := c.items.Get(path); it != nil {
		e := it.Value()
		if e.size == fi.Size() && e.modTime.Equal(fi.ModTime()) {
			return clone(e.mesh), nil
		}
	}

	m, err := Load(path, c.opts)
	if err != nil {
		c.Invalidate(path)
		return nil, err
	}
	c.items.Set(path, cacheEntry{mesh: m, modTime: fi.ModTime(), size: fi.Size()}, ttlcache.DefaultTTL)
	return clone(m), nil
}

// Invalidate drops path from the cache.
func (c *Cache) Invalidate(path string) { c.items.Delete(path) }

// Len returns the number of cached meshes.
func (c *Cache) Len() int { return c.items.Len() }

func clone(m *geom.Mesh) *geom.Mesh {
	return &geom.Mesh{Position: m.Position, Triangles: slices.Clone(m.Triangles)}
}
