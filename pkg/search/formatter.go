package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soundprediction/docugraph/pkg/strategy"
	"github.com/soundprediction/docugraph/pkg/types"
)

// FormatContext renders the retrieved material into the context block
// handed to answer generation. The function is pure and deterministic:
// entities are grouped by type with both types and properties sorted,
// chunks are ordered by (document, index), and the same inputs always
// produce byte-identical output.
func FormatContext(entities []types.ScoredEntity, chunks []types.ScoredChunk, rels []*types.Relationship, include strategy.IncludeMetadataConfig) string {
	var b strings.Builder

	names := map[string]string{}
	for _, se := range entities {
		names[se.Entity.ID] = se.Entity.DisplayName()
	}

	if len(entities) > 0 {
		b.WriteString("## Entities\n")
		writeEntities(&b, entities)
	}

	if len(rels) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## Relationships\n")
		writeRelationships(&b, rels, names)
	}

	if len(chunks) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## Source Passages\n")
		writeChunks(&b, chunks, include)
	}

	return b.String()
}

func writeEntities(b *strings.Builder, entities []types.ScoredEntity) {
	byType := map[string][]types.ScoredEntity{}
	for _, se := range entities {
		byType[se.Entity.Type] = append(byType[se.Entity.Type], se)
	}
	entityTypes := make([]string, 0, len(byType))
	for t := range byType {
		entityTypes = append(entityTypes, t)
	}
	sort.Strings(entityTypes)

	for _, t := range entityTypes {
		fmt.Fprintf(b, "\n### %s\n", t)
		group := byType[t]
		sort.Slice(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score > group[j].Score
			}
			return group[i].Entity.ID < group[j].Entity.ID
		})
		for _, se := range group {
			b.WriteString("- " + se.Entity.DisplayName())
			if se.Entity.Confidence > 0 {
				fmt.Fprintf(b, " (confidence: %.2f)", se.Entity.Confidence)
			}
			b.WriteString("\n")

			keys := make([]string, 0, len(se.Entity.Properties))
			for k := range se.Entity.Properties {
				if k == "name" || k == "title" {
					continue
				}
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(b, "  - %s: %v\n", k, se.Entity.Properties[k])
			}
		}
	}
}

func writeRelationships(b *strings.Builder, rels []*types.Relationship, names map[string]string) {
	lines := make([]string, 0, len(rels))
	for _, r := range rels {
		source := names[r.SourceID]
		if source == "" {
			source = r.SourceID
		}
		target := names[r.TargetID]
		if target == "" {
			target = r.TargetID
		}
		lines = append(lines, fmt.Sprintf("- %s -[%s]-> %s", source, r.Type, target))
	}
	sort.Strings(lines)
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
}

func writeChunks(b *strings.Builder, chunks []types.ScoredChunk, include strategy.IncludeMetadataConfig) {
	ordered := make([]types.ScoredChunk, len(chunks))
	copy(ordered, chunks)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Chunk.DocumentID != ordered[j].Chunk.DocumentID {
			return ordered[i].Chunk.DocumentID < ordered[j].Chunk.DocumentID
		}
		return ordered[i].Chunk.ChunkIndex < ordered[j].Chunk.ChunkIndex
	})

	for _, sc := range ordered {
		c := sc.Chunk
		header := fmt.Sprintf("\n[%s #%d", c.DocumentID, c.ChunkIndex)
		var meta []string
		if include.SectionHeading && c.SectionHeading != nil && *c.SectionHeading != "" {
			meta = append(meta, "section: "+*c.SectionHeading)
		}
		if include.PageNumber && c.PageNumber != nil {
			meta = append(meta, fmt.Sprintf("page %d", *c.PageNumber))
		}
		if include.TemporalRefs && len(c.TemporalRefs) > 0 {
			meta = append(meta, "dates: "+strings.Join(c.TemporalRefs, ", "))
		}
		if include.KeyTerms && len(c.KeyTerms) > 0 {
			meta = append(meta, "terms: "+strings.Join(c.KeyTerms, ", "))
		}
		if len(meta) > 0 {
			header += " | " + strings.Join(meta, " | ")
		}
		header += "]\n"

		b.WriteString(header)
		b.WriteString(strings.TrimSpace(c.Text))
		b.WriteString("\n")
	}
}
