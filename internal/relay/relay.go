package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aria-hq/aria-protein-relay/internal/domain"
	"github.com/aria-hq/aria-protein-relay/internal/logger"
	"github.com/aria-hq/aria-protein-relay/internal/metrics"
	"github.com/aria-hq/aria-protein-relay/pkg/httpclient"
	"github.com/aria-hq/aria-protein-relay/pkg/upstreams"
)

const (
	// SearchPageSize caps the number of entries requested from the search upstream.
	SearchPageSize = 10

	ContentTypeStructure = "text/plain; charset=utf-8"
	ContentTypeJSON      = "application/json; charset=utf-8"

	actionFetchStructure = "fetch PDB file"
	actionSearch         = "search proteins"
)

// Payload is an upstream body returned verbatim together with the content
// type the relay annotates it with.
type Payload struct {
	Body        []byte
	ContentType string
}

// Service forwards structure and search requests to their upstreams. It
// holds no per-request state and is safe for concurrent use.
type Service struct {
	client    httpclient.Client
	structure upstreams.Upstream
	search    upstreams.Upstream
	metrics   *metrics.Relay
	log       logger.Logger
}

// NewService wires a relay with the outbound client and upstream registry.
func NewService(client httpclient.Client, reg *upstreams.Registry, m *metrics.Relay, log logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}
	if reg == nil {
		reg = upstreams.DefaultRegistry()
	}
	structure, ok := reg.ByID(upstreams.StructureID)
	if !ok {
		return nil, fmt.Errorf("upstream %q not configured", upstreams.StructureID)
	}
	search, ok := reg.ByID(upstreams.SearchID)
	if !ok {
		return nil, fmt.Errorf("upstream %q not configured", upstreams.SearchID)
	}

	return &Service{
		client:    client,
		structure: structure,
		search:    search,
		metrics:   m,
		log:       logger.Ensure(log),
	}, nil
}

// StructureURL builds the download URL for a structure identifier.
// The identifier is uppercased and path-escaped but otherwise not validated.
func StructureURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/download/" + url.PathEscape(strings.ToUpper(id)) + ".pdb"
}

// SearchURL builds the reviewed-entries gene query URL.
func SearchURL(baseURL, geneName string) string {
	return strings.TrimRight(baseURL, "/") +
		"/uniprotkb/search?query=gene:" + url.QueryEscape(geneName) +
		"+AND+reviewed:true&format=json&size=" + strconv.Itoa(SearchPageSize)
}

// FetchStructure downloads the structure file for id.
func (s *Service) FetchStructure(ctx context.Context, id string) (Payload, error) {
	target := StructureURL(s.structure.BaseURL, id)

	body, err := s.forward(ctx, s.structure, target, actionFetchStructure)
	if err != nil {
		return Payload{}, err
	}

	s.log.DebugObj("structure relayed", "relay_result", map[string]any{
		"upstream": s.structure.ID,
		"id":       strings.ToUpper(id),
		"bytes":    len(body),
	})
	return Payload{Body: body, ContentType: ContentTypeStructure}, nil
}

// SearchByGene queries reviewed entries for geneName. The body must be valid
// JSON; it is returned byte for byte.
func (s *Service) SearchByGene(ctx context.Context, geneName string) (Payload, error) {
	target := SearchURL(s.search.BaseURL, geneName)

	body, err := s.forward(ctx, s.search, target, actionSearch)
	if err != nil {
		return Payload{}, err
	}

	var result domain.SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		terr := &TransportError{Err: fmt.Errorf("invalid json response body at %s reason: %w", target, err)}
		s.logTransportFailure(s.search, target, terr)
		return Payload{}, terr
	}

	s.log.DebugObj("search relayed", "relay_result", map[string]any{
		"upstream":     s.search.ID,
		"gene":         geneName,
		"result_count": len(result.Results),
	})
	return Payload{Body: body, ContentType: ContentTypeJSON}, nil
}

// forward issues exactly one GET and classifies the outcome.
func (s *Service) forward(ctx context.Context, u upstreams.Upstream, target, action string) ([]byte, error) {
	done := s.metrics.Start(u.ID)

	resp, err := s.client.Get(ctx, target, upstreams.Headers(u))
	if err != nil {
		done(metrics.OutcomeTransport)
		terr := &TransportError{Err: err}
		s.logTransportFailure(u, target, terr)
		return nil, terr
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		done(metrics.OutcomeRejected)
		rejected := &UpstreamRejectedError{
			Action:     action,
			Status:     code,
			StatusText: resp.StatusText(),
		}
		s.log.WarnObj("upstream rejected request", "upstream_rejected", map[string]any{
			"upstream": u.ID,
			"url":      target,
			"status":   code,
			"error":    rejected.Error(),
		})
		return nil, rejected
	}

	done(metrics.OutcomeSuccess)
	return resp.Body(), nil
}

func (s *Service) logTransportFailure(u upstreams.Upstream, target string, err error) {
	s.log.ErrorObj("upstream transport failure", "upstream_error", map[string]any{
		"upstream": u.ID,
		"url":      target,
		"error":    err.Error(),
	})
}
