// Package asset resolves sprite identifiers to decoded images before the
// game starts. Files may be PNG, JPEG, GIF or WebP; "builtin:" identifiers
// are drawn procedurally.
package asset

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/webp" // Register WebP decoder
	"golang.org/x/sync/errgroup"
)

// ErrEmptyManifest is returned when a manifest lacks the player sprite or
// has no alien sprites.
var ErrEmptyManifest = errors.New("asset: manifest needs a player and at least one alien sprite")

// Manifest lists the sprites the game needs. Alien types index Aliens
// modulo its length.
type Manifest struct {
	Player string
	Aliens []string
}

// DefaultManifest uses the built-in sprites.
func DefaultManifest() Manifest {
	return Manifest{
		Player: BuiltinPlayer,
		Aliens: []string{BuiltinAlien0, BuiltinAlien1},
	}
}

// Validate reports ErrEmptyManifest for a manifest that cannot be loaded.
func (m Manifest) Validate() error {
	if strings.TrimSpace(m.Player) == "" || len(m.Aliens) == 0 {
		return ErrEmptyManifest
	}
	for _, a := range m.Aliens {
		if strings.TrimSpace(a) == "" {
			return ErrEmptyManifest
		}
	}
	return nil
}

// Paths returns the player path followed by the alien paths.
func (m Manifest) Paths() []string {
	return append([]string{m.Player}, m.Aliens...)
}

// Result is the outcome of loading one path.
type Result struct {
	Path  string
	Image image.Image
	Err   error
}

// Sprites are the decoded images of a manifest.
type Sprites struct {
	Player image.Image
	Aliens []image.Image
}

// Alien returns the sprite for an alien type.
func (s *Sprites) Alien(typ int) image.Image {
	if len(s.Aliens) == 0 {
		return nil
	}
	n := len(s.Aliens)
	return s.Aliens[((typ%n)+n)%n]
}

// Loader decodes sprites concurrently.
type Loader struct {
	limit  int
	open   func(name string) (io.ReadCloser, error)
	logger *log.Logger
}

// NewLoader creates a loader reading from the filesystem. limit bounds the
// number of concurrent decodes; non-positive means GOMAXPROCS.
func NewLoader(limit int, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		limit: cmp.Or(max(limit, 0), runtime.GOMAXPROCS(0)),
		open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
		logger: logger,
	}
}

// Load resolves every sprite in m. Any failed path fails the whole load; the
// error joins one error per failed path.
func (l *Loader) Load(ctx context.Context, m Manifest) (*Sprites, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	results := l.LoadAll(ctx, m.Paths())
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("load sprites: %w", errors.Join(errs...))
	}

	s := &Sprites{Player: results[0].Image}
	for _, r := range results[1:] {
		s.Aliens = append(s.Aliens, r.Image)
	}
	return s, nil
}

// LoadAll loads paths concurrently and returns one Result per path, in order.
func (l *Loader) LoadAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(l.limit)
	for i, p := range paths {
		g.Go(func() error {
			img, err := l.loadOne(ctx, p)
			if err != nil {
				err = fmt.Errorf("%s: %w", p, err)
			} else {
				b := img.Bounds()
				l.logger.Debug("sprite loaded", "path", p, "width", b.Dx(), "height", b.Dy())
			}
			results[i] = Result{Path: p, Image: img, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (l *Loader) loadOne(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		return Builtin(name)
	}

	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
