package linkverify

import (
	"path"
	"strings"
)

// Routes is the set of URL paths a build produces: pages and static files.
type Routes struct {
	paths map[string]bool
}

// NewRoutes returns a route set holding paths.
func NewRoutes(paths ...string) *Routes {
	r := &Routes{paths: map[string]bool{}}
	for _, p := range paths {
		r.Add(p)
	}
	return r
}

// Add records a route. "/a/b/", "/a/b" and "/a/b/index.html" are the same route.
func (r *Routes) Add(p string) { r.paths[routeKey(p)] = true }

// Has reports whether p names a known route.
func (r *Routes) Has(p string) bool { return r.paths[routeKey(p)] }

// Len returns the number of distinct routes.
func (r *Routes) Len() int { return len(r.paths) }

func routeKey(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if path.Base(p) == "index.html" {
		p = path.Dir(p)
	}
	return path.Clean(p)
}
