package catalog

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/load"
	"github.com/lixenwraith/scenery/render"
)

const ImageDictID = "image_dict"

// Parallel decode limit for one dictionary
const imageWorkers = 4

type imageDict struct {
	Images map[string]string `json:"images"`
}

// LoadImage decodes a PNG file into terminal cells
func LoadImage(path string) (*render.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &load.FileError{Path: path, Err: err}
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, &load.FileError{Path: path, Err: err}
	}
	return render.ConvertImage(src), nil
}

// ImageCatalog is the shared image singleton
type ImageCatalog struct {
	mu     sync.RWMutex
	images map[string]*render.Image
}

// NewImageCatalog creates an empty catalog
func NewImageCatalog() *ImageCatalog {
	return &ImageCatalog{images: make(map[string]*render.Image)}
}

// Add inserts or replaces an image
func (c *ImageCatalog) Add(name string, img *render.Image) {
	c.mu.Lock()
	c.images[name] = img
	c.mu.Unlock()
}

// Get looks up an image by name
func (c *ImageCatalog) Get(name string) (*render.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[name]
	return img, ok
}

// LoadOrGet returns the named image, loading it from path and caching it when absent
func (c *ImageCatalog) LoadOrGet(name, path string) (*render.Image, error) {
	if img, ok := c.Get(name); ok {
		return img, nil
	}
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have loaded it meanwhile; keep the first
	if existing, ok := c.images[name]; ok {
		return existing, nil
	}
	c.images[name] = img
	return img, nil
}

// Names returns the image names in sorted order
func (c *ImageCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.images))
	for n := range c.images {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of images
func (c *ImageCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageCatalogLoader reads an image_dict file and decodes its images in parallel
type ImageCatalogLoader struct {
	path  string
	paths load.Paths
}

// NewImageCatalogLoader prepares a loader for the dictionary at path
func NewImageCatalogLoader(path string, paths load.Paths) *ImageCatalogLoader {
	return &ImageCatalogLoader{path: path, paths: paths}
}

// Load reads the dictionary and every image; the first failure cancels the rest
func (l *ImageCatalogLoader) Load(ctx context.Context) (*ImageCatalog, error) {
	log := ctxlog.FromContext(ctx)

	env, err := load.ReadEnvelope(l.path)
	if err != nil {
		return nil, err
	}
	if err := load.CheckID(ImageDictID, env); err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}
	dict, err := load.Decode[imageDict](env.ActualValue)
	if err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}

	names := make([]string, 0, len(dict.Images))
	for n := range dict.Images {
		names = append(names, n)
	}
	slices.Sort(names)

	decoded := make([]*render.Image, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageWorkers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := LoadImage(l.paths.Resolve(dict.Images[name]))
			if err != nil {
				return fmt.Errorf("image %q: %w", name, err)
			}
			decoded[i] = img
			log.Debug("image loaded", "name", name, "width", img.Width, "height", img.Height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	catalog := NewImageCatalog()
	for i, name := range names {
		catalog.Add(name, decoded[i])
	}
	log.Info("image catalog loaded", "images", catalog.Len())
	return catalog, nil
}
