package assets

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

// URLPrefix is where assets are mounted.
const URLPrefix = "/static/"

var ErrNoAssets = errors.New("no static assets found")

// Options controls how assets are prepared and cached by clients.
type Options struct {
	// Minify compresses CSS and JS once at load time.
	Minify bool
	// Live re-reads files on every request instead of serving the loaded copy.
	Live bool
}

// Asset is a file ready to be served.
type Asset struct {
	Body        []byte
	ContentType string
	Hash        string
}

// Server serves files from a fixed directory under URLPrefix.
type Server struct {
	fsys fs.FS
	opts Options
	min  *minify.M

	mu     sync.RWMutex
	assets map[string]Asset
}

// New loads every file in fsys. Production servers should pass Minify.
func New(fsys fs.FS, opts Options) (*Server, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	s := &Server{fsys: fsys, opts: opts, min: m}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load (re)reads all files. The previous set is kept if reading fails.
func (s *Server) Load() error {
	set := make(map[string]Asset)
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		a, err := s.read(p)
		if err != nil {
			return err
		}
		set[p] = a
		return nil
	})
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	if len(set) == 0 {
		return ErrNoAssets
	}

	s.mu.Lock()
	s.assets = set
	s.mu.Unlock()
	return nil
}

func (s *Server) read(name string) (Asset, error) {
	body, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return Asset{}, err
	}

	ct := contentType(name)
	if s.opts.Minify {
		mediatype, _, _ := strings.Cut(ct, ";")
		if mediatype == "text/css" || mediatype == "application/javascript" || mediatype == "text/javascript" {
			if mediatype == "text/javascript" {
				mediatype = "application/javascript"
			}
			out, err := s.min.Bytes(mediatype, body)
			if err != nil {
				return Asset{}, fmt.Errorf("minify %s: %w", name, err)
			}
			body = out
		}
	}

	sum := md5.Sum(body)
	return Asset{Body: body, ContentType: ct, Hash: hex.EncodeToString(sum[:])[:10]}, nil
}

// Lookup returns the asset for a path relative to the asset root.
func (s *Server) Lookup(name string) (Asset, bool) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if s.opts.Live {
		a, err := s.read(name)
		return a, err == nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[name]
	return a, ok
}

// Len is the number of loaded assets.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

// URL appends a content hash to an asset URL so browsers refetch it after
// a change. Unknown paths are returned unchanged.
func (s *Server) URL(p string) string {
	if !strings.HasPrefix(p, URLPrefix) {
		return p
	}
	a, ok := s.Lookup(strings.TrimPrefix(p, URLPrefix))
	if !ok {
		return p
	}
	return p + "?v=" + a.Hash
}

// Handler serves the asset named by the route wildcard, e.g. app.Get("/static/*", h).
func (s *Server) Handler() fiber.Handler {
	cacheControl := "public, max-age=31536000, immutable"
	if s.opts.Live {
		cacheControl = "no-store"
	}

	return func(c *fiber.Ctx) error {
		a, ok := s.Lookup(c.Params("*"))
		if !ok {
			return fiber.ErrNotFound
		}

		etag := `"` + a.Hash + `"`
		c.Set(fiber.HeaderCacheControl, cacheControl)
		c.Set(fiber.HeaderETag, etag)
		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			return c.SendStatus(fiber.StatusNotModified)
		}

		c.Set(fiber.HeaderContentType, a.ContentType)
		return c.Send(a.Body)
	}
}

func contentType(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return fiber.MIMEOctetStream
	}
	return utils.GetMIME(ext)
}
