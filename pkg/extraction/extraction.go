/*
Package extraction turns the loose JSON produced by the external entity and
relation extractor into a domain.ExtractionResult.

Language models do not always honour the requested schema: numbers arrive as
strings, single objects arrive instead of lists, and failures come back as an
"error" field. Decoding is therefore weakly typed, via mapstructure.
*/
package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/cortex/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ErrExtractionFailed is returned when the extractor reported an error instead of a result.
var ErrExtractionFailed = errors.New("extraction failed")

// payload mirrors the extractor response, including its optional error field.
type payload struct {
	domain.ExtractionResult `mapstructure:",squash"`
	Error                   string `mapstructure:"error"`
}

// Decode parses a raw extractor response.
func Decode(data []byte) (domain.ExtractionResult, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("failed to parse extraction json: %w", err)
	}
	return FromMap(raw)
}

// FromMap decodes an already-parsed extractor response.
func FromMap(raw map[string]any) (domain.ExtractionResult, error) {
	var p payload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("failed to decode extraction: %w", err)
	}
	if p.Error != "" {
		return domain.ExtractionResult{}, fmt.Errorf("%w: %s", ErrExtractionFailed, p.Error)
	}
	return p.ExtractionResult, nil
}

// Dedupe removes in-batch duplicates: nodes by case-insensitive id (first wins),
// links by their directional (source, target, type) identity. Order is kept.
func Dedupe(r domain.ExtractionResult) domain.ExtractionResult {
	out := domain.ExtractionResult{
		Nodes: make([]domain.ExtractedNode, 0, len(r.Nodes)),
		Links: make([]domain.ExtractedLink, 0, len(r.Links)),
	}

	seenNodes := make(map[string]struct{}, len(r.Nodes))
	for _, n := range r.Nodes {
		key := domain.NodeKey(n.ID)
		if _, ok := seenNodes[key]; ok {
			continue
		}
		seenNodes[key] = struct{}{}
		out.Nodes = append(out.Nodes, n)
	}

	seenLinks := make(map[domain.LinkKey]struct{}, len(r.Links))
	for _, l := range r.Links {
		key := domain.LinkInit{Source: l.Source, Target: l.Target, Type: l.Type}.KeyOf()
		if _, ok := seenLinks[key]; ok {
			continue
		}
		seenLinks[key] = struct{}{}
		out.Links = append(out.Links, l)
	}
	return out
}

// Normalize trims identifiers and labels in place of the extractor's formatting noise.
func Normalize(r domain.ExtractionResult) domain.ExtractionResult {
	out := domain.ExtractionResult{
		Nodes: make([]domain.ExtractedNode, len(r.Nodes)),
		Links: make([]domain.ExtractedLink, len(r.Links)),
	}
	for i, n := range r.Nodes {
		out.Nodes[i] = domain.ExtractedNode{
			ID:       strings.TrimSpace(n.ID),
			Group:    strings.TrimSpace(n.Group),
			Category: strings.TrimSpace(n.Category),
		}
	}
	for i, l := range r.Links {
		out.Links[i] = domain.ExtractedLink{
			Source: strings.TrimSpace(l.Source),
			Target: strings.TrimSpace(l.Target),
			Type:   strings.TrimSpace(l.Type),
		}
	}
	return out
}

// Parse is Decode followed by Normalize and Dedupe, the usual path for adapter input.
func Parse(data []byte) (domain.ExtractionResult, error) {
	r, err := Decode(data)
	if err != nil {
		return r, err
	}
	return Dedupe(Normalize(r)), nil
}
