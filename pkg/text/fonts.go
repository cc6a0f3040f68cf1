// Package text loads fonts and shapes text into wrapped lines.
package text

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Drelf2018/vue2img/pkg/resource"
)

// ErrMissingAsset is returned when a font cannot be loaded.
var ErrMissingAsset = resource.ErrMissingAsset

// builtin maps generic family names to the embedded Go fonts.
var builtin = map[string][]byte{
	"sans-serif": goregular.TTF,
	"serif":      goregular.TTF,
	"monospace":  gomono.TTF,
	"bold":       gobold.TTF,
}

type faceKey struct {
	family string
	size   float64
}

// Fonts resolves font-family values to faces. Families are looked up
// among the configured paths, then the built-in generic families, and
// finally treated as a TTF file path. Parsed fonts and faces are
// cached; Fonts is safe for concurrent use.
type Fonts struct {
	mu     sync.Mutex
	paths  map[string]string
	parsed map[string]*truetype.Font
	faces  map[faceKey]font.Face
}

// NewFonts returns a manager with extra family -> TTF path mappings.
func NewFonts(paths map[string]string) *Fonts {
	p := make(map[string]string, len(paths))
	for k, v := range paths {
		p[strings.ToLower(k)] = v
	}
	return &Fonts{
		paths:  p,
		parsed: make(map[string]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// Face returns the face for family at size pixels.
func (f *Fonts) Face(family string, size float64) (font.Face, error) {
	family = f.canonical(family)
	f.mu.Lock()
	defer f.mu.Unlock()

	key := faceKey{family, size}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	ttf, err := f.font(family)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	f.faces[key] = face
	return face, nil
}

// Measurer returns a FaceMeasurer for family at size.
func (f *Fonts) Measurer(family string, size float64) (Measurer, error) {
	face, err := f.Face(family, size)
	if err != nil {
		return nil, err
	}
	return FaceMeasurer{Face: face}, nil
}

// canonical strips quotes and lower-cases known family names. Unknown
// names are file paths and keep their case.
func (f *Fonts) canonical(family string) string {
	family = strings.Trim(strings.TrimSpace(family), `"'`)
	lower := strings.ToLower(family)
	if _, ok := f.paths[lower]; ok {
		return lower
	}
	if _, ok := builtin[lower]; ok {
		return lower
	}
	return family
}

func (f *Fonts) font(family string) (*truetype.Font, error) {
	if ttf, ok := f.parsed[family]; ok {
		return ttf, nil
	}
	data, err := f.load(family)
	if err != nil {
		return nil, err
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: font %q: %v", ErrMissingAsset, family, err)
	}
	f.parsed[family] = ttf
	return ttf, nil
}

func (f *Fonts) load(family string) ([]byte, error) {
	path, ok := f.paths[family]
	if !ok {
		if data, ok := builtin[family]; ok {
			return data, nil
		}
		path = family
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: font %q: %v", ErrMissingAsset, family, err)
	}
	return data, nil
}
