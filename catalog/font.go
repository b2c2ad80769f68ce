package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/scenery/ctxlog"
	"github.com/lixenwraith/scenery/load"
)

const (
	FontID     = "font"
	FontDictID = "font_dict"
)

// Font is a named terminal text style
type Font struct {
	Name  string
	Style tcell.Style
}

type fontFile struct {
	FG        string `json:"fg"`
	BG        string `json:"bg"`
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
}

type fontDict struct {
	Fonts map[string]string `json:"fonts"`
}

// ParseFont builds a font from a "font" envelope
func ParseFont(name string, env load.Envelope) (Font, error) {
	if err := load.CheckID(FontID, env); err != nil {
		return Font{}, err
	}
	ff, err := load.DecodeLoose[fontFile](env.ActualValue)
	if err != nil {
		return Font{}, err
	}

	style := tcell.StyleDefault.Bold(ff.Bold).Italic(ff.Italic).Underline(ff.Underline)
	if ff.FG != "" {
		c, err := parseColor(ff.FG)
		if err != nil {
			return Font{}, fmt.Errorf("font %q fg: %w", name, err)
		}
		style = style.Foreground(c)
	}
	if ff.BG != "" {
		c, err := parseColor(ff.BG)
		if err != nil {
			return Font{}, fmt.Errorf("font %q bg: %w", name, err)
		}
		style = style.Background(c)
	}
	return Font{Name: name, Style: style}, nil
}

// LoadFont reads and parses one font file
func LoadFont(name, path string) (Font, error) {
	env, err := load.ReadEnvelope(path)
	if err != nil {
		return Font{}, err
	}
	f, err := ParseFont(name, env)
	if err != nil {
		return Font{}, &load.FileError{Path: path, Err: err}
	}
	return f, nil
}

// parseColor accepts "#rrggbb" and W3C color names
func parseColor(s string) (tcell.Color, error) {
	if strings.EqualFold(s, "default") {
		return tcell.ColorDefault, nil
	}
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return c, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

// FontCatalog is the shared font singleton
type FontCatalog struct {
	mu    sync.RWMutex
	fonts map[string]Font
}

// NewFontCatalog creates an empty catalog
func NewFontCatalog() *FontCatalog {
	return &FontCatalog{fonts: make(map[string]Font)}
}

// Add inserts or replaces a font by its name
func (c *FontCatalog) Add(f Font) {
	c.mu.Lock()
	c.fonts[f.Name] = f
	c.mu.Unlock()
}

// Get looks up a font by name
func (c *FontCatalog) Get(name string) (Font, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.fonts[name]
	return f, ok
}

// Names returns the font names in sorted order
func (c *FontCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.fonts))
	for n := range c.fonts {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of fonts
func (c *FontCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fonts)
}

// FontCatalogLoader reads a font_dict file and every font it references
type FontCatalogLoader struct {
	path  string
	paths load.Paths
}

// NewFontCatalogLoader prepares a loader for the dictionary at path
// Font paths inside the dictionary resolve against paths
func NewFontCatalogLoader(path string, paths load.Paths) *FontCatalogLoader {
	return &FontCatalogLoader{path: path, paths: paths}
}

// Load reads the dictionary and all fonts
func (l *FontCatalogLoader) Load(ctx context.Context) (*FontCatalog, error) {
	log := ctxlog.FromContext(ctx)

	env, err := load.ReadEnvelope(l.path)
	if err != nil {
		return nil, err
	}
	if err := load.CheckID(FontDictID, env); err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}
	dict, err := load.Decode[fontDict](env.ActualValue)
	if err != nil {
		return nil, &load.FileError{Path: l.path, Err: err}
	}

	names := make([]string, 0, len(dict.Fonts))
	for n := range dict.Fonts {
		names = append(names, n)
	}
	slices.Sort(names)

	catalog := NewFontCatalog()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := LoadFont(name, l.paths.Resolve(dict.Fonts[name]))
		if err != nil {
			return nil, fmt.Errorf("font %q: %w", name, err)
		}
		catalog.Add(f)
		log.Debug("font loaded", "name", name)
	}

	log.Info("font catalog loaded", "fonts", catalog.Len())
	return catalog, nil
}
