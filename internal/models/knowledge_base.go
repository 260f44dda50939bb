package models

// CategoryRecord is one process domain of the knowledge base (e.g. scholarship).
// Records are immutable once the knowledge base is built.
type CategoryRecord struct {
	Key       string       `json:"key" yaml:"key"`
	Name      string       `json:"name" yaml:"name"`
	ShortDesc string       `json:"short_desc" yaml:"short_desc"`
	Keywords  []string     `json:"keywords" yaml:"keywords"`
	Items     []ItemRecord `json:"items" yaml:"items"`
}

type ItemRecord struct {
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Steps       []StepRecord `json:"steps,omitempty" yaml:"steps,omitempty"`
	DocsNeeded  []DocRecord  `json:"docs_needed,omitempty" yaml:"docs_needed,omitempty"`
}

type StepRecord struct {
	Title                string `json:"title" yaml:"title"`
	Description          string `json:"description" yaml:"description"`
	ResponsibleAuthority string `json:"responsible_authority" yaml:"responsible_authority"`
	ExpectedTime         string `json:"expected_time,omitempty" yaml:"expected_time,omitempty"`
}

// DocRecord describes a document the user has to prepare, with the template
// text and the names of the fields it must contain.
type DocRecord struct {
	Type     string   `json:"type" yaml:"type"`
	Template string   `json:"template" yaml:"template"`
	Fields   []string `json:"fields" yaml:"fields"`
}

// Clone returns a deep copy so callers cannot alias the stored slices.
func (c CategoryRecord) Clone() CategoryRecord {
	out := c
	out.Keywords = append([]string(nil), c.Keywords...)
	out.Items = make([]ItemRecord, len(c.Items))
	for i, item := range c.Items {
		cp := item
		cp.Steps = append([]StepRecord(nil), item.Steps...)
		if item.DocsNeeded != nil {
			cp.DocsNeeded = make([]DocRecord, len(item.DocsNeeded))
			for j, doc := range item.DocsNeeded {
				d := doc
				d.Fields = append([]string(nil), doc.Fields...)
				cp.DocsNeeded[j] = d
			}
		}
		out.Items[i] = cp
	}
	return out
}
