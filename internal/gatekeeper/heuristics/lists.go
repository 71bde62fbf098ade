package heuristics

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed lists.yaml
var listsYAML []byte

// Lists holds the data side of the classifier: denylists and keyword lists
// shipped embedded in the binary.
type Lists struct {
	DisposableDomains []string `yaml:"disposable_domains"`
	FreeEmailDomains  []string `yaml:"free_email_domains"`
	SpamKeywords      []string `yaml:"spam_keywords"`
}

// DefaultLists parses the embedded lists.yaml. The embedded file is part of
// the build, so a parse failure is a programming error.
func DefaultLists() Lists {
	lists, err := ParseLists(listsYAML)
	if err != nil {
		panic(fmt.Sprintf("heuristics: embedded lists.yaml is invalid: %v", err))
	}
	return lists
}

// ParseLists decodes a YAML lists document.
func ParseLists(data []byte) (Lists, error) {
	var lists Lists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return Lists{}, fmt.Errorf("parse heuristic lists: %w", err)
	}
	if len(lists.DisposableDomains) == 0 {
		return Lists{}, fmt.Errorf("heuristic lists: disposable_domains is empty")
	}
	return lists, nil
}
