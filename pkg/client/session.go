package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aria-hq/aria-protein-relay/internal/domain"
)

// ErrNoStructure is returned when a search hit has no PDB cross reference.
var ErrNoStructure = errors.New("no 3D structure available for this protein")

// LoadedProtein describes the structure currently shown by a viewer.
type LoadedProtein struct {
	PDBID string
	Gene  string
	Data  string
}

// Session is the view state of one viewer: the currently loaded protein.
// Each viewer owns its own Session.
type Session struct {
	client *Client

	mu      sync.Mutex
	current *LoadedProtein
}

// NewSession returns an empty session bound to c.
func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Load fetches the structure for pdbID and makes it current. On failure the
// previous protein stays current.
func (s *Session) Load(ctx context.Context, pdbID, gene string) (LoadedProtein, error) {
	data, err := s.client.FetchStructure(ctx, pdbID)
	if err != nil {
		return LoadedProtein{}, err
	}
	loaded := LoadedProtein{PDBID: strings.TrimSpace(pdbID), Gene: gene, Data: data}

	s.mu.Lock()
	s.current = &loaded
	s.mu.Unlock()
	return loaded, nil
}

// LoadRecord loads the first structure referenced by rec, labelled with its primary gene.
func (s *Session) LoadRecord(ctx context.Context, rec domain.ProteinRecord) (LoadedProtein, error) {
	refs := rec.StructureRefs()
	if len(refs) == 0 {
		return LoadedProtein{}, ErrNoStructure
	}
	return s.Load(ctx, refs[0].ID, rec.PrimaryGene())
}

// Current returns the loaded protein, if any.
func (s *Session) Current() (LoadedProtein, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return LoadedProtein{}, false
	}
	return *s.current, true
}
