package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/steelshape/steelshape/pkg/engine"
	"github.com/steelshape/steelshape/pkg/profiles"
)

// Document is a YAML file of profile definitions.
type Document struct {
	// Source is the file the document was read from, if any.
	Source string `yaml:"-"`

	// Profiles lists the definitions in file order.
	Profiles []ProfileSpec `yaml:"profiles" validate:"dive"`
}

// ProfileSpec is one profile definition as written in a document:
//
//	profiles:
//	  - id: hea-200
//	    name: HEA 200
//	    family: IShape
//	    params:
//	      flange_width: 200
//	      depth: 190
type ProfileSpec struct {
	ID     string    `yaml:"id" validate:"required"`
	Name   string    `yaml:"name" validate:"required"`
	Code   string    `yaml:"code,omitempty"`
	Family string    `yaml:"family" validate:"required"`
	Params yaml.Node `yaml:"params"`
}

// LoadDocument reads and parses a profile document.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// ParseDocument decodes a profile document and checks that every entry
// has an identity and a family, and that IDs are unique.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	seen := make(map[string]int, len(doc.Profiles))
	for i, ps := range doc.Profiles {
		if j, dup := seen[ps.ID]; dup {
			return nil, fmt.Errorf("invalid document: profile %q defined at entries %d and %d", ps.ID, j, i)
		}
		seen[ps.ID] = i
	}
	return &doc, nil
}

// ToProfile decodes the parameters into the named family. Unknown families
// and unknown parameter fields are errors; parameter values are not checked
// here.
func (ps *ProfileSpec) ToProfile() (*engine.Profile, error) {
	var raw []byte
	if ps.Params.Kind != 0 {
		var params map[string]any
		if err := ps.Params.Decode(&params); err != nil {
			return nil, fmt.Errorf("profile %s: params must be a mapping: %w", ps.ID, err)
		}
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", ps.ID, err)
		}
		raw = data
	}

	family, err := profiles.Decode(profiles.FamilyName(ps.Family), raw)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", ps.ID, err)
	}
	return &engine.Profile{
		ID:     ps.ID,
		Name:   ps.Name,
		Code:   ps.Code,
		Params: family,
	}, nil
}

// ToProfiles decodes every entry in document order.
func (d *Document) ToProfiles() ([]*engine.Profile, error) {
	out := make([]*engine.Profile, 0, len(d.Profiles))
	for i := range d.Profiles {
		p, err := d.Profiles[i].ToProfile()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
