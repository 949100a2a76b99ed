package catalog

import "strings"

// Catalog is the immutable set of tool definitions, in registration
// order. Build it once at startup with New; reads need no locking.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

// New builds a catalog from a registration table.
// Returns an error for empty or duplicate names.
func New(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, &ErrInvalidDefinition{Reason: "empty tool name"}
		}
		if _, exists := c.index[d.Name]; exists {
			return nil, &ErrDuplicateTool{Name: d.Name}
		}
		c.index[d.Name] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// MustNew is like New but panics on error. Intended for the fixed
// startup table, where a duplicate name is a programming error.
func MustNew(defs ...Definition) *Catalog {
	c, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup retrieves a definition by name.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	i, ok := c.index[name]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Definitions returns a copy of all definitions in registration order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Filter narrows a discovery query. Zero value matches everything.
type Filter struct {
	// Categories keeps only tools in one of the given categories.
	Categories []Category
	// Actions keeps only tools carrying at least one of the given tags.
	Actions []Action
	// Query keeps only tools whose name or summary contains the text
	// (case-insensitive).
	Query string
}

// Discover returns the name+summary projection of every definition
// matching the filter, in registration order. Parameter schemas are
// withheld; fetch them per tool with Lookup.
func (c *Catalog) Discover(f Filter) []Entry {
	var out []Entry
	query := strings.ToLower(f.Query)
	for _, d := range c.defs {
		if len(f.Categories) > 0 && !containsCategory(f.Categories, d.Category) {
			continue
		}
		if len(f.Actions) > 0 && !hasAnyAction(d, f.Actions) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(d.Name), query) &&
			!strings.Contains(strings.ToLower(d.Summary), query) {
			continue
		}
		out = append(out, Entry{Name: d.Name, Summary: d.Summary})
	}
	return out
}

func containsCategory(cats []Category, c Category) bool {
	for _, cat := range cats {
		if cat == c {
			return true
		}
	}
	return false
}

func hasAnyAction(d Definition, actions []Action) bool {
	for _, a := range actions {
		if d.HasAction(a) {
			return true
		}
	}
	return false
}
