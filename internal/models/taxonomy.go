// internal/models/taxonomy.go
package models

type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Color string `json:"color" yaml:"color"`
}

type Area struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	City string `json:"city" yaml:"city"`
}

// Taxonomy is a read-only snapshot of the reference catalog.
type Taxonomy struct {
	Categories []Category `json:"categories"`
	Areas      []Area     `json:"areas"`
}
