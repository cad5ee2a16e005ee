package texture

import (
	"fmt"
	"image"
	"io/fs"

	"github.com/gogpu/sprite/internal/cache"
)

// DefaultCacheCapacity is the number of decoded images a Loader keeps.
const DefaultCacheCapacity = 64

// LoaderOption configures a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	capacity int
	onEvict  func(name string)
}

func defaultLoaderOptions() loaderOptions {
	return loaderOptions{capacity: DefaultCacheCapacity}
}

// WithCacheCapacity sets how many decoded images stay cached.
// 0 disables eviction.
func WithCacheCapacity(n int) LoaderOption {
	return func(o *loaderOptions) {
		if n >= 0 {
			o.capacity = n
		}
	}
}

// WithEvictHook registers fn to run when an image is evicted from the
// cache, e.g. to release the matching GPU texture.
func WithEvictHook(fn func(name string)) LoaderOption {
	return func(o *loaderOptions) {
		o.onEvict = fn
	}
}

// Loader decodes images from a file system and caches the results by path.
//
// Loader is safe for concurrent use.
type Loader struct {
	fsys   fs.FS
	images *cache.Cache[string, *image.RGBA]
}

// NewLoader creates a loader reading from fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	o := defaultLoaderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := &Loader{
		fsys:   fsys,
		images: cache.New[string, *image.RGBA](o.capacity),
	}
	if o.onEvict != nil {
		hook := o.onEvict
		l.images.OnEvict(func(name string, _ *image.RGBA) { hook(name) })
	}
	return l
}

// Load returns the decoded image at name, decoding it on first use.
func (l *Loader) Load(name string) (*image.RGBA, error) {
	return l.images.GetOrCreate(name, func() (*image.RGBA, error) {
		return l.decodeFile(name)
	})
}

// Cached returns the image for name only if it is already decoded.
func (l *Loader) Cached(name string) (*image.RGBA, bool) {
	return l.images.Get(name)
}

// Evict drops name from the cache. Returns true if it was cached.
func (l *Loader) Evict(name string) bool { return l.images.Delete(name) }

// Len returns the number of cached images.
func (l *Loader) Len() int { return l.images.Len() }

// Stats returns cache statistics.
func (l *Loader) Stats() cache.Stats { return l.images.Stats() }

func (l *Loader) decodeFile(name string) (*image.RGBA, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", name, err)
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	slogger().Debug("texture decoded", "name", name, "format", format,
		"width", img.Rect.Dx(), "height", img.Rect.Dy())
	return img, nil
}
