// Package nav maps admin console routes to breadcrumb trails. The mapping is
// deterministic and stateless: static path segments resolve through a label
// table, dynamic segments (ids) resolve through the labeler registered for
// the collection segment preceding them, and anything unknown falls back to
// the raw segment.
package nav

import "strings"

// Crumb is one breadcrumb: a display label and the href of the prefix it
// represents.
type Crumb struct {
	Label string
	Href  string
}

// Trail is the ordered breadcrumb list for one path, root first.
type Trail []Crumb

// Labeler resolves a dynamic segment value (typically an entity id) to a
// display label. Returning "" falls back to the raw value.
type Labeler func(value string) string

// Registry holds the label tables. The zero value is not usable; call
// NewRegistry.
type Registry struct {
	labels   map[string]string
	labelers map[string]Labeler
}

func NewRegistry() *Registry {
	return &Registry{
		labels:   make(map[string]string),
		labelers: make(map[string]Labeler),
	}
}

// Label registers the display label of a static segment, e.g.
// Label("companies", "Companies").
func (r *Registry) Label(segment, label string) *Registry {
	r.labels[segment] = label
	return r
}

// Param registers a labeler for dynamic segments that directly follow the
// given collection segment, e.g. Param("companies", lookupCompanyName).
func (r *Registry) Param(collection string, fn Labeler) *Registry {
	r.labelers[collection] = fn
	return r
}

// Resolve builds the trail for a concrete path like
// "/admin/companies/42/users".
func (r *Registry) Resolve(path string) Trail {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 1 && segments[0] == "" {
		return nil
	}

	trail := make(Trail, 0, len(segments))
	href := ""
	prev := ""
	for _, seg := range segments {
		href += "/" + seg
		label := seg
		if known, ok := r.labels[seg]; ok {
			label = known
		} else if fn, ok := r.labelers[prev]; ok {
			if resolved := fn(seg); resolved != "" {
				label = resolved
			}
		}
		trail = append(trail, Crumb{Label: label, Href: href})
		prev = seg
	}
	return trail
}
