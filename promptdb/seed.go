package promptdb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedEntry struct {
	category, name, text string
}

var defaultSeed = []seedEntry{
	{"poses", "posing with camera", "a person posing with a camera, professional photography pose, confident stance"},
	{"poses", "casual sitting", "person sitting casually, relaxed posture, natural lighting"},
	{"poses", "standing portrait", "person standing in portrait pose, direct eye contact, professional setting"},
	{"styles", "cinematic", "cinematic lighting, dramatic shadows, film grain, professional cinematography"},
	{"styles", "artistic", "artistic composition, creative lighting, expressive style, fine art photography"},
	{"styles", "minimalist", "clean composition, minimal background, simple elegant style"},
	{"quality", "high quality", "masterpiece, best quality, ultra detailed, 8k resolution, professional photography"},
	{"quality", "artistic quality", "artistic masterpiece, fine art, museum quality, exceptional detail"},
	{"quality", "photorealistic", "photorealistic, hyperrealistic, lifelike, professional photo quality"},
}

// DefaultSeed returns a fresh copy of the document a store writes when its
// file does not exist yet.
func DefaultSeed() *Document {
	d := NewDocument()
	for _, e := range defaultSeed {
		d.Set(e.category, e.name, e.text)
	}
	return d
}

// LoadSeedFile reads a seed document from a YAML (or JSON) file.
func LoadSeedFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("promptdb: read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a category -> name -> text mapping, keeping the order
// in which keys appear. A null text is stored as "".
func ParseSeed(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("promptdb: parse seed: %w", err)
	}
	doc := NewDocument()
	top := &root
	if top.Kind == yaml.DocumentNode {
		if len(top.Content) == 0 {
			return doc, nil
		}
		top = top.Content[0]
	}
	if top.Kind == 0 {
		return doc, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("promptdb: seed line %d: expected a mapping of categories", top.Line)
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		cat, body := top.Content[i], top.Content[i+1]
		if cat.Value == "" {
			return nil, fmt.Errorf("promptdb: seed line %d: %w", cat.Line, ErrEmptyKey)
		}
		if isNull(body) {
			doc.ensureCategory(cat.Value)
			continue
		}
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("promptdb: seed line %d: category %q must be a mapping", body.Line, cat.Value)
		}
		doc.ensureCategory(cat.Value)
		for j := 0; j+1 < len(body.Content); j += 2 {
			name, text := body.Content[j], body.Content[j+1]
			if name.Value == "" {
				return nil, fmt.Errorf("promptdb: seed line %d: %w", name.Line, ErrEmptyKey)
			}
			if text.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("promptdb: seed line %d: prompt %q must be a string", text.Line, name.Value)
			}
			value := text.Value
			if isNull(text) {
				value = ""
			}
			doc.Set(cat.Value, name.Value, value)
		}
	}
	return doc, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
