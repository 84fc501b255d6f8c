package upstreams

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write upstreams file: %v", err)
	}
	return path
}

func TestLoadRegistryEmptyPathUsesDefaults(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := reg.MustByID(StructureID).BaseURL; got != "https://files.rcsb.org" {
		t.Fatalf("unexpected structure base url %q", got)
	}
	if got := reg.MustByID(SearchID).BaseURL; got != "https://rest.uniprot.org" {
		t.Fatalf("unexpected search base url %q", got)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 upstreams, got %d", len(reg.All()))
	}
}

func TestLoadRegistryYAMLOverridesBaseURLAndHeaders(t *testing.T) {
	path := writeFile(t, "upstreams.yaml", `
upstreams:
  - id: RCSB
    base_url: https://mirror.example.org/
    config:
      user_agent: aria-relay/1.0
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	u := reg.MustByID(StructureID)
	if u.BaseURL != "https://mirror.example.org" {
		t.Fatalf("expected trimmed override base url, got %q", u.BaseURL)
	}
	if u.Name != "RCSB Protein Data Bank" {
		t.Fatalf("expected default name to survive merge, got %q", u.Name)
	}
	if h := Headers(u); h["User-Agent"] != "aria-relay/1.0" {
		t.Fatalf("expected User-Agent header, got %#v", h)
	}
	if reg.MustByID(SearchID).BaseURL != "https://rest.uniprot.org" {
		t.Fatalf("search upstream should keep its default")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "upstreams.json", `{"upstreams":[{"id":"uniprot","base_url":"http://localhost:9000"}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := reg.MustByID(SearchID).BaseURL; got != "http://localhost:9000" {
		t.Fatalf("unexpected base url %q", got)
	}
}

func TestLoadRegistryRejectsUnknownAndDuplicate(t *testing.T) {
	path := writeFile(t, "upstreams.yaml", `
upstreams:
  - id: pdbe
    base_url: https://www.ebi.ac.uk
  - id: uniprot
    base_url: https://a.example
  - id: uniprot
    base_url: https://b.example
`)

	_, err := LoadRegistry(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), `unknown upstream id "pdbe"`) {
		t.Fatalf("expected unknown id error, got %v", err)
	}
	if !strings.Contains(err.Error(), `duplicate upstream id "uniprot"`) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadRegistryRejectsNonHTTPBaseURL(t *testing.T) {
	path := writeFile(t, "upstreams.yaml", `
upstreams:
  - id: rcsb
    base_url: ftp://files.rcsb.org
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected scheme validation error")
	}
}

func TestHeadersSkipsEmptyValues(t *testing.T) {
	h := Headers(Upstream{Config: map[string]any{
		ConfigUserAgentKey: "  ",
		ConfigAcceptKey:    "application/json",
		"unrelated":        42,
	}})
	if len(h) != 1 || h["Accept"] != "application/json" {
		t.Fatalf("unexpected headers %#v", h)
	}
}
