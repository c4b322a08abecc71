package wordml

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Relationship represents a relationship in the package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// brokenLinkSentinel replaces malformed external relationship targets
// encountered at load time, keeping the document loadable.
const brokenLinkSentinel = "about:blank"

// RelationshipSet holds the relationships of one source part. IDs are unique
// per source part.
type RelationshipSet struct {
	source string // owning part name, e.g. "word/document.xml"
	rels   []Relationship
}

// parseRelationshipSet parses the relationships part belonging to sourcePart.
// A missing relationships file is not an error. Malformed external target
// URIs are forced to a sentinel broken-link value rather than failing load.
func parseRelationshipSet(c *Container, sourcePart string) (*RelationshipSet, error) {
	rs := &RelationshipSet{source: sourcePart}

	relPath := relsPathFor(sourcePart)
	if !c.HasPart(relPath) {
		return rs, nil
	}

	data, err := c.Part(relPath)
	if err != nil {
		return nil, err
	}

	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, NewInvalidDocumentError(relPath, "failed to parse relationships", err)
	}

	for i := range rels.Relationship {
		rel := &rels.Relationship[i]
		if rel.TargetMode == "External" && !validExternalTarget(rel.Target) {
			GetLogger().Warn("repairing malformed external relationship target %q in %s", rel.Target, relPath)
			rel.Target = brokenLinkSentinel
		}
	}

	rs.rels = rels.Relationship
	return rs, nil
}

// validExternalTarget reports whether an external target is a usable URI.
// url.Parse accepts nearly anything, so the absolute-form ParseRequestURI
// plus a whitespace check does the gatekeeping.
func validExternalTarget(target string) bool {
	if strings.ContainsAny(target, " \t\r\n") {
		return false
	}
	_, err := url.ParseRequestURI(target)
	return err == nil
}

// ByID returns the relationship with the given ID, or nil.
func (rs *RelationshipSet) ByID(id string) *Relationship {
	for i := range rs.rels {
		if rs.rels[i].ID == id {
			return &rs.rels[i]
		}
	}
	return nil
}

// ByType returns all relationships of the given type.
func (rs *RelationshipSet) ByType(relType string) []Relationship {
	var out []Relationship
	for _, rel := range rs.rels {
		if rel.Type == relType {
			out = append(out, rel)
		}
	}
	return out
}

// ByTarget returns the first relationship pointing at the given target, or nil.
func (rs *RelationshipSet) ByTarget(target string) *Relationship {
	for i := range rs.rels {
		if rs.rels[i].Target == target {
			return &rs.rels[i]
		}
	}
	return nil
}

// All returns a copy of the relationship list.
func (rs *RelationshipSet) All() []Relationship {
	out := make([]Relationship, len(rs.rels))
	copy(out, rs.rels)
	return out
}

// NextID mints the next free relationship ID for this part.
func (rs *RelationshipSet) NextID() string {
	maxID := 0
	for _, rel := range rs.rels {
		if strings.HasPrefix(rel.ID, "rId") {
			numStr := strings.TrimPrefix(rel.ID, "rId")
			if num, err := strconv.Atoi(numStr); err == nil && num > maxID {
				maxID = num
			}
		}
	}
	return fmt.Sprintf("rId%d", maxID+1)
}

// Add registers a new relationship with a freshly minted ID and returns it.
func (rs *RelationshipSet) Add(relType, target, targetMode string) Relationship {
	rel := Relationship{
		ID:         rs.NextID(),
		Type:       relType,
		Target:     target,
		TargetMode: targetMode,
	}
	rs.rels = append(rs.rels, rel)
	return rel
}

// Remove deletes the relationship with the given ID. Returns true if found.
func (rs *RelationshipSet) Remove(id string) bool {
	for i := range rs.rels {
		if rs.rels[i].ID == id {
			rs.rels = append(rs.rels[:i], rs.rels[i+1:]...)
			return true
		}
	}
	return false
}

// Marshal serializes the relationship set as a relationships part.
// Uses compact marshaling with the XML header Word requires.
func (rs *RelationshipSet) Marshal() ([]byte, error) {
	output, err := xml.Marshal(&Relationships{
		Namespace:    NamespaceRels,
		Relationship: rs.rels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships: %w", err)
	}
	result := []byte(xmlHeader)
	result = append(result, output...)
	return result, nil
}

// write stores the serialized set back into the container.
func (rs *RelationshipSet) write(c *Container) error {
	data, err := rs.Marshal()
	if err != nil {
		return err
	}
	c.SetPart(relsPathFor(rs.source), data)
	return nil
}
