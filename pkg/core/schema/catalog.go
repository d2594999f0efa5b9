package schema

import "sync"

// Entry is one addressable (section, field) of the intake schema.
type Entry struct {
	Section      string    `json:"section"`
	Field        string    `json:"field"`
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	Options      []string  `json:"options,omitempty"`
	TableColumns []string  `json:"tableColumns,omitempty"`
	AIHint       string    `json:"aiHint,omitempty"`
}

// Key returns "section.field".
func (e Entry) Key() string {
	return e.Section + "." + e.Field
}

// IsTable reports whether the entry accepts add_row updates.
func (e Entry) IsTable() bool {
	return e.Type == TypeTable
}

// Catalog is the flattened, read-only field registry.
type Catalog struct {
	entries []Entry
	byKey   map[string]int
}

// NewCatalog flattens sections into a catalog. Duplicate keys keep the first entry.
func NewCatalog(sections []Section) *Catalog {
	c := &Catalog{byKey: make(map[string]int)}
	for _, s := range sections {
		for _, f := range s.Fields {
			e := Entry{
				Section:      s.ID,
				Field:        f.Name,
				Label:        f.Label,
				Type:         f.Type,
				Options:      append([]string(nil), f.Options...),
				TableColumns: append([]string(nil), f.TableColumns...),
				AIHint:       f.AIHint,
			}
			if _, dup := c.byKey[e.Key()]; dup {
				continue
			}
			c.byKey[e.Key()] = len(c.entries)
			c.entries = append(c.entries, e)
		}
	}
	return c
}

var (
	defaultCatalog *Catalog
	catalogOnce    sync.Once
)

// Default returns the catalog built from Sections.
func Default() *Catalog {
	catalogOnce.Do(func() {
		defaultCatalog = NewCatalog(Sections)
	})
	return defaultCatalog
}

// Lookup returns the entry for (section, field).
func (c *Catalog) Lookup(section, field string) (Entry, bool) {
	return c.LookupKey(section + "." + field)
}

// LookupKey returns the entry for a "section.field" key.
func (c *Catalog) LookupKey(key string) (Entry, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns all entries in schema order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ForSection returns the entries of one section in schema order.
func (c *Catalog) ForSection(section string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Section == section {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
