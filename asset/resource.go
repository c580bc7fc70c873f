package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// A Resource is a readable stream backed by a local file or an http(s) URL.
// Callers must Close it once done.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the location the resource was opened from.
func (r *Resource) Path() string {
	return r.url.String()
}

// Ext returns the lower-cased extension (with the leading dot) of the
// resource path. Query strings of remote resources are ignored.
func (r *Resource) Ext() string {
	return strings.ToLower(path.Ext(r.url.Path))
}

// NewResource opens location as a local file or, for http/https URLs, as an
// http response body. Relative locations without a scheme are resolved
// against the directory of relTo when it is not nil; mesh includes use this
// to reference files next to the including mesh.
func NewResource(location string, relTo *Resource) (*Resource, error) {
	target, err := resolve(location, relTo)
	if err != nil {
		return nil, err
	}

	stream, err := open(target)
	if err != nil {
		return nil, err
	}
	return &Resource{ReadCloser: stream, url: target}, nil
}

// NewResourceFromStream wraps an in-memory reader; name is used for Path and Ext.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	target, _ := url.Parse(name)
	return &Resource{ReadCloser: io.NopCloser(source), url: target}
}

func resolve(location string, relTo *Resource) (*url.URL, error) {
	target, err := url.Parse(filepath.ToSlash(strings.ReplaceAll(location, `\`, `/`)))
	if err != nil {
		return nil, err
	}
	if target.Scheme != "" || relTo == nil || filepath.IsAbs(target.Path) {
		return target, nil
	}

	base := *relTo.url
	dir := path.Dir(base.Path)
	if base.Scheme == "" {
		abs, err := filepath.Abs(base.Path)
		if err != nil {
			return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", base.String(), err.Error())
		}
		dir = filepath.Dir(abs)
	}
	base.Path = dir + "/" + target.Path
	base.RawQuery = ""
	return &base, nil
}

func open(target *url.URL) (io.ReadCloser, error) {
	switch target.Scheme {
	case "":
		f, err := os.Open(filepath.Clean(target.Path))
		if err != nil {
			return nil, err
		}
		return f, nil
	case "http", "https":
		resp, err := http.Get(target.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", target.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", target.String(), resp.StatusCode)
		}
		return resp.Body, nil
	}
	return nil, fmt.Errorf("resource: unsupported scheme '%s'", target.Scheme)
}
