package upstreams

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package upstreams describes the external REST services the relay forwards to.

const (
	// StructureID identifies the structure repository (RCSB PDB).
	StructureID = "rcsb"
	// SearchID identifies the protein knowledge base (UniProt).
	SearchID = "uniprot"

	defaultStructureBaseURL = "https://files.rcsb.org"
	defaultSearchBaseURL    = "https://rest.uniprot.org"
)

// Upstream is a single upstream definition.
type Upstream struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	BaseURL string         `json:"base_url" yaml:"base_url"`
	Config  map[string]any `json:"config" yaml:"config"`
}

type configFile struct {
	Upstreams []Upstream `json:"upstreams" yaml:"upstreams"`
}

// Registry holds the resolved upstream definitions keyed by id.
type Registry struct {
	mu  sync.RWMutex
	idx map[string]Upstream
}

// Defaults returns the built-in upstream definitions.
func Defaults() []Upstream {
	return []Upstream{
		{ID: StructureID, Name: "RCSB Protein Data Bank", BaseURL: defaultStructureBaseURL, Config: map[string]any{}},
		{ID: SearchID, Name: "UniProt Knowledgebase", BaseURL: defaultSearchBaseURL, Config: map[string]any{}},
	}
}

// DefaultRegistry returns a registry populated with the built-in upstreams.
func DefaultRegistry() *Registry {
	reg := &Registry{idx: make(map[string]Upstream)}
	for _, u := range Defaults() {
		reg.idx[u.ID] = u
	}
	return reg
}

// NewRegistry returns the built-in upstreams with the given overrides applied
// by id. Overrides with unknown ids are ignored.
func NewRegistry(overrides ...Upstream) *Registry {
	reg := DefaultRegistry()
	for _, o := range overrides {
		o = sanitizeUpstream(o)
		if base, ok := reg.idx[o.ID]; ok {
			reg.idx[o.ID] = merge(base, o)
		}
	}
	return reg
}

// LoadRegistry builds a registry from the built-in upstreams overlaid with the
// entries of the YAML/JSON file at path. An empty path yields the defaults.
func LoadRegistry(path string) (*Registry, error) {
	reg := DefaultRegistry()

	path = strings.TrimSpace(path)
	if path == "" {
		return reg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upstreams file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upstreams file: %w", err)
	}

	parsed, err := parseConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Upstreams) == 0 {
		return nil, errors.New("upstreams file contains no upstreams entries")
	}

	seen := make(map[string]struct{}, len(parsed.Upstreams))
	var errs []error
	for i := range parsed.Upstreams {
		u := sanitizeUpstream(parsed.Upstreams[i])
		if _, dup := seen[u.ID]; dup {
			errs = append(errs, fmt.Errorf("upstreams[%d]: duplicate upstream id %q", i, u.ID))
			continue
		}
		seen[u.ID] = struct{}{}

		base, known := reg.idx[u.ID]
		if !known {
			errs = append(errs, fmt.Errorf("upstreams[%d]: unknown upstream id %q", i, u.ID))
			continue
		}
		merged := merge(base, u)
		if err := validateUpstream(merged); err != nil {
			errs = append(errs, fmt.Errorf("upstreams[%d]: %w", i, err))
			continue
		}
		reg.idx[u.ID] = merged
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return reg, nil
}

func parseConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var cf configFile
		if err := d.fn(data, &cf); err == nil {
			return cf, nil
		}
	}

	return configFile{}, errors.New("upstreams file format not recognized (expected YAML or JSON)")
}

func sanitizeUpstream(u Upstream) Upstream {
	u.ID = strings.ToLower(strings.TrimSpace(u.ID))
	u.Name = strings.TrimSpace(u.Name)
	u.BaseURL = strings.TrimRight(strings.TrimSpace(u.BaseURL), "/")
	return u
}

// merge overlays the non-empty fields of override onto base.
func merge(base, override Upstream) Upstream {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.BaseURL != "" {
		out.BaseURL = override.BaseURL
	}
	cfg := make(map[string]any, len(base.Config)+len(override.Config))
	for k, v := range base.Config {
		cfg[k] = v
	}
	for k, v := range override.Config {
		cfg[k] = v
	}
	out.Config = cfg
	return out
}

func validateUpstream(u Upstream) error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.BaseURL == "" {
		return fmt.Errorf("base_url is required for upstream %q", u.ID)
	}
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base_url for upstream %q: %w", u.ID, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base_url for upstream %q must be http or https", u.ID)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base_url for upstream %q has no host", u.ID)
	}
	return nil
}

// ByID returns the upstream definition for id.
func (r *Registry) ByID(id string) (Upstream, bool) {
	if r == nil {
		return Upstream{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.idx[strings.ToLower(strings.TrimSpace(id))]
	return u, ok
}

// MustByID is ByID for ids known to be present in every registry.
func (r *Registry) MustByID(id string) Upstream {
	u, ok := r.ByID(id)
	if !ok {
		panic(fmt.Sprintf("upstream %q not registered", id))
	}
	return u
}

// All returns the upstreams sorted structure first, search second.
func (r *Registry) All() []Upstream {
	if r == nil {
		return nil
	}
	out := make([]Upstream, 0, 2)
	for _, id := range []string{StructureID, SearchID} {
		if u, ok := r.ByID(id); ok {
			out = append(out, u)
		}
	}
	return out
}
