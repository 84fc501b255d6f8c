package domain

import "strings"

// Domain contains the protein search schema shared by the relay and its clients.

const (
	// UnknownToken is returned by accessors when a descriptive field is absent.
	UnknownToken = "Unknown"
	// NoGenesToken is returned by GeneList when no gene names are present.
	NoGenesToken = "N/A"
	// StructureDatabase is the cross-reference database holding 3D structures.
	StructureDatabase = "PDB"
)

// SearchResult is the UniProtKB search envelope.
type SearchResult struct {
	Results []ProteinRecord `json:"results"`
}

// ProteinRecord is a single UniProtKB entry. Only the fields the viewer
// reads are modelled; everything else in the upstream document is ignored.
type ProteinRecord struct {
	PrimaryAccession         string              `json:"primaryAccession"`
	UniProtkbID              string              `json:"uniProtkbId,omitempty"`
	ProteinDescription       *ProteinDescription `json:"proteinDescription,omitempty"`
	Genes                    []Gene              `json:"genes,omitempty"`
	Organism                 *Organism           `json:"organism,omitempty"`
	UniProtKBCrossReferences []CrossReference    `json:"uniProtKBCrossReferences,omitempty"`
}

type ProteinDescription struct {
	RecommendedName *RecommendedName `json:"recommendedName,omitempty"`
}

type RecommendedName struct {
	FullName *ValueField `json:"fullName,omitempty"`
}

type Gene struct {
	GeneName *ValueField `json:"geneName,omitempty"`
}

type ValueField struct {
	Value string `json:"value"`
}

type Organism struct {
	ScientificName string `json:"scientificName,omitempty"`
	TaxonID        int64  `json:"taxonId,omitempty"`
}

// CrossReference links an entry to an external database record.
type CrossReference struct {
	Database string `json:"database"`
	ID       string `json:"id"`
}

// Name returns the recommended full name, the UniProtKB id, or UnknownToken.
func (p ProteinRecord) Name() string {
	if d := p.ProteinDescription; d != nil && d.RecommendedName != nil && d.RecommendedName.FullName != nil {
		if v := strings.TrimSpace(d.RecommendedName.FullName.Value); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(p.UniProtkbID); v != "" {
		return v
	}
	return UnknownToken
}

// GeneNames returns the non-empty gene names in upstream order.
func (p ProteinRecord) GeneNames() []string {
	out := make([]string, 0, len(p.Genes))
	for _, g := range p.Genes {
		if g.GeneName == nil {
			continue
		}
		if v := strings.TrimSpace(g.GeneName.Value); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// GeneList joins GeneNames with ", " or returns NoGenesToken.
func (p ProteinRecord) GeneList() string {
	names := p.GeneNames()
	if len(names) == 0 {
		return NoGenesToken
	}
	return strings.Join(names, ", ")
}

// PrimaryGene returns the first gene name, or "" when there is none.
func (p ProteinRecord) PrimaryGene() string {
	if names := p.GeneNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// OrganismName returns the scientific name or UnknownToken.
func (p ProteinRecord) OrganismName() string {
	if p.Organism != nil {
		if v := strings.TrimSpace(p.Organism.ScientificName); v != "" {
			return v
		}
	}
	return UnknownToken
}

// StructureRefs returns the PDB cross references of the entry.
func (p ProteinRecord) StructureRefs() []CrossReference {
	out := make([]CrossReference, 0)
	for _, ref := range p.UniProtKBCrossReferences {
		if ref.Database == StructureDatabase && strings.TrimSpace(ref.ID) != "" {
			out = append(out, ref)
		}
	}
	return out
}
