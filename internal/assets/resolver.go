package assets

import "slices"

// Resolver reads each asset from the first source that has it. A custom
// directory, when configured, shadows the built-in assets name by name.
type Resolver struct {
	sources []Source
}

// NewResolver creates a Resolver over the built-in assets, preceded by
// basePath when it is not empty.
// Returns ErrInvalidBasePath if basePath is set but unusable.
func NewResolver(basePath string) (*Resolver, error) {
	r := &Resolver{}
	if basePath != "" {
		dir, err := OpenDir(basePath)
		if err != nil {
			return nil, err
		}
		r.sources = append(r.sources, dir)
	}
	r.sources = append(r.sources, Embedded{})
	return r, nil
}

// LoadStyle returns the named stylesheet.
func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.read(Style, name)
}

// LoadTemplate returns the named page template.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.read(Template, name)
}

// read stops at the first hit or at the first error other than absence:
// an invalid name or an unreadable custom file is never shadowed.
func (r *Resolver) read(kind Kind, name string) (string, error) {
	var err error
	for _, s := range r.sources {
		var content string
		if content, err = s.Read(kind, name); err == nil || !IsNotFound(err) {
			return content, err
		}
	}
	return "", err
}

// Styles lists the stylesheet names of every source, sorted and unique.
func (r *Resolver) Styles() []string {
	var names []string
	for _, s := range r.sources {
		names = append(names, s.Names(Style)...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Custom reports whether a custom directory is configured.
func (r *Resolver) Custom() bool {
	return len(r.sources) > 1
}
