// Package adapters mounts a synapse HTTP listener on a web framework's router.
package adapters

import "net/http"

// Adapter mounts an http.Handler, usually a *synapse.HTTPListener, at a path
type Adapter interface {
	Name() string
	Mount(path string, handler http.Handler)
}
