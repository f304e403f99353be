package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/soundprediction/docugraph/pkg/schema"
	"github.com/soundprediction/docugraph/pkg/types"
)

// infraRelTypes are the structural edges that traversal and
// relationship listing must never cross.
var infraRelTypes = []any{"NEXT_CHUNK", "PREV_CHUNK", "FROM_DOCUMENT", "EXTRACTED_FROM"}

// fulltextIndexName is the index SearchChunksByText uses in fulltext
// mode. Created by EnsureIndexes.
const fulltextIndexName = "chunk_text_fulltext"

// Neo4jStore implements GraphStore against a Neo4j database.
type Neo4jStore struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to a Neo4j instance.
func NewNeo4jStore(uri, username, password, database string) (*Neo4jStore, error) {
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jStore{client: client, database: database}, nil
}

func (s *Neo4jStore) session(ctx context.Context) neo4j.SessionWithContext {
	return s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
}

// safeLabel validates an identifier before it is interpolated into a
// query as a label or relationship type.
func safeLabel(name string) (string, error) {
	if !schema.ValidIdentifier(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return name, nil
}

// UpsertDocument creates or updates a Document node keyed on id.
func (s *Neo4jStore) UpsertDocument(ctx context.Context, doc *types.Document) error {
	props := map[string]any{
		"filename":    doc.Filename,
		"ingested_at": doc.IngestedAt.UTC().Format(time.RFC3339),
	}
	if doc.PageCount > 0 {
		props["page_count"] = doc.PageCount
	}
	if len(doc.Metadata) > 0 {
		raw, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("encode document metadata: %w", err)
		}
		props["metadata_json"] = string(raw)
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (d:Document {id: $id})
			SET d += $props
		`
		_, err := tx.Run(ctx, query, map[string]any{"id": doc.ID, "props": props})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}
	return nil
}

// UpsertChunk creates or updates a Chunk node keyed on id.
func (s *Neo4jStore) UpsertChunk(ctx context.Context, chunk *types.Chunk) error {
	props := map[string]any{
		"document_id": chunk.DocumentID,
		"chunk_index": chunk.ChunkIndex,
	}
	if chunk.Text != "" {
		props["text"] = chunk.Text
	}
	if chunk.PageNumber != nil {
		props["page_number"] = *chunk.PageNumber
	}
	if chunk.SectionHeading != nil {
		props["section_heading"] = *chunk.SectionHeading
	}
	if len(chunk.TemporalRefs) > 0 {
		props["temporal_refs"] = chunk.TemporalRefs
	}
	if len(chunk.KeyTerms) > 0 {
		props["key_terms"] = chunk.KeyTerms
	}
	if chunk.WordCount > 0 {
		props["word_count"] = chunk.WordCount
	}
	if chunk.CharCount > 0 {
		props["char_count"] = chunk.CharCount
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (c:Chunk {id: $id})
			SET c += $props
		`
		_, err := tx.Run(ctx, query, map[string]any{"id": chunk.ID, "props": props})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// LinkChunkToDocument creates the FROM_DOCUMENT edge.
func (s *Neo4jStore) LinkChunkToDocument(ctx context.Context, chunkID, documentID string) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (c:Chunk {id: $chunkID})
			MATCH (d:Document {id: $documentID})
			MERGE (c)-[:FROM_DOCUMENT]->(d)
		`
		_, err := tx.Run(ctx, query, map[string]any{"chunkID": chunkID, "documentID": documentID})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("link chunk %s to document %s: %w", chunkID, documentID, err)
	}
	return nil
}

// LinkChunkChain creates NEXT_CHUNK and PREV_CHUNK edges over the
// ordered sequence in a single transaction. If any adjacent pair cannot
// be linked the transaction rolls back and no edges are stored.
func (s *Neo4jStore) LinkChunkChain(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) < 2 {
		return nil
	}
	pairs := make([]map[string]any, 0, len(chunkIDs)-1)
	for i := 0; i < len(chunkIDs)-1; i++ {
		pairs = append(pairs, map[string]any{"from": chunkIDs[i], "to": chunkIDs[i+1]})
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			UNWIND $pairs AS pair
			MATCH (a:Chunk {id: pair.from})
			MATCH (b:Chunk {id: pair.to})
			MERGE (a)-[:NEXT_CHUNK]->(b)
			MERGE (b)-[:PREV_CHUNK]->(a)
			RETURN count(*) AS linked
		`
		res, err := tx.Run(ctx, query, map[string]any{"pairs": pairs})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		linked, _ := record.Get("linked")
		if n, ok := linked.(int64); !ok || int(n) != len(pairs) {
			return nil, fmt.Errorf("%w: linked %v of %d pairs", ErrPartialChain, linked, len(pairs))
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("link chunk chain: %w", err)
	}
	return nil
}

// UpsertEntity creates or updates an entity node. Nodes carry the
// generic Entity label plus their schema type label.
func (s *Neo4jStore) UpsertEntity(ctx context.Context, entity *types.Entity) error {
	label, err := safeLabel(entity.Type)
	if err != nil {
		return err
	}
	props := map[string]any{"entity_type": entity.Type}
	for k, v := range entity.Properties {
		props[k] = v
	}
	if entity.Confidence > 0 {
		props["confidence"] = entity.Confidence
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MERGE (e:Entity:%s {id: $id})
			SET e += $props
		`, label)
		_, err := tx.Run(ctx, query, map[string]any{"id": entity.ID, "props": props})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert entity %s: %w", entity.Key(), err)
	}
	return nil
}

// UpsertRelationship creates or updates a typed edge between two
// existing entities. Missing endpoints mean no edge is created; the
// caller validates endpoints before writing.
func (s *Neo4jStore) UpsertRelationship(ctx context.Context, rel *types.Relationship) error {
	relType, err := safeLabel(rel.Type)
	if err != nil {
		return err
	}
	props := map[string]any{}
	for k, v := range rel.Properties {
		props[k] = v
	}
	if rel.Confidence > 0 {
		props["confidence"] = rel.Confidence
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH (a:Entity {id: $sourceID})
			MATCH (b:Entity {id: $targetID})
			MERGE (a)-[r:%s {id: $id}]->(b)
			SET r += $props
		`, relType)
		_, err := tx.Run(ctx, query, map[string]any{
			"id":       rel.ID,
			"sourceID": rel.SourceID,
			"targetID": rel.TargetID,
			"props":    props,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert relationship %s: %w", rel.Type, err)
	}
	return nil
}

// EntityExists reports whether an entity node with the id exists.
func (s *Neo4jStore) EntityExists(ctx context.Context, entityID string) (bool, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity {id: $id})
			RETURN count(e) AS n
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": entityID})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Get("n")
		return n, nil
	})
	if err != nil {
		return false, fmt.Errorf("check entity %s: %w", entityID, err)
	}
	n, _ := result.(int64)
	return n > 0, nil
}

// LinkEntityToChunk creates the EXTRACTED_FROM provenance edge.
func (s *Neo4jStore) LinkEntityToChunk(ctx context.Context, entityID, chunkID string, props map[string]any) error {
	if props == nil {
		props = map[string]any{}
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity {id: $entityID})
			MATCH (c:Chunk {id: $chunkID})
			MERGE (e)-[r:EXTRACTED_FROM]->(c)
			SET r += $props
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"entityID": entityID,
			"chunkID":  chunkID,
			"props":    props,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("link entity %s to chunk %s: %w", entityID, chunkID, err)
	}
	return nil
}

// SearchEntities finds traversal seeds by type, exact property filters,
// and keyword match on name/id.
func (s *Neo4jStore) SearchEntities(ctx context.Context, entityTypes []string, filters map[string]string, keywords []string, limit int) ([]*types.Entity, error) {
	for _, t := range entityTypes {
		if _, err := safeLabel(t); err != nil {
			return nil, err
		}
	}
	filterList := make([]map[string]any, 0, len(filters))
	for k, v := range filters {
		filterList = append(filterList, map[string]any{"key": k, "value": v})
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity)
			WHERE (size($types) = 0 OR any(l IN labels(e) WHERE l IN $types))
			  AND all(f IN $filters WHERE toLower(toString(coalesce(e[f.key], ''))) = toLower(f.value))
			  AND (size($keywords) = 0 OR any(kw IN $keywords WHERE
			        toLower(coalesce(e.name, '')) CONTAINS toLower(kw)
			        OR toLower(e.id) CONTAINS toLower(kw)))
			RETURN e
			LIMIT $limit
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"types":    entityTypes,
			"filters":  filterList,
			"keywords": keywords,
			"limit":    limit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("search entities: %w", err)
	}

	return entitiesFromRecords(result, "e")
}

// TraverseFrom walks entity relationships outward from the seeds up to
// maxDepth hops, returning each reached entity once with its minimum
// hop distance. Structural edges are never crossed.
func (s *Neo4jStore) TraverseFrom(ctx context.Context, seedIDs []string, maxDepth int) ([]TraversalHit, error) {
	if len(seedIDs) == 0 {
		return nil, nil
	}
	if maxDepth < 1 {
		maxDepth = 1
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// maxDepth is an int and appears only in the length bound.
		query := fmt.Sprintf(`
			MATCH (seed:Entity)
			WHERE seed.id IN $seeds
			MATCH path = (seed)-[*0..%d]-(e:Entity)
			WHERE all(r IN relationships(path) WHERE NOT type(r) IN $infra)
			RETURN e, min(length(path)) AS distance
		`, maxDepth)
		res, err := tx.Run(ctx, query, map[string]any{
			"seeds": seedIDs,
			"infra": infraRelTypes,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("traverse from seeds: %w", err)
	}

	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", result)
	}
	hits := make([]TraversalHit, 0, len(records))
	for _, record := range records {
		node, found := record.Get("e")
		if !found {
			continue
		}
		dbNode, ok := node.(dbtype.Node)
		if !ok {
			continue
		}
		distance, _ := record.Get("distance")
		d, _ := distance.(int64)
		hits = append(hits, TraversalHit{Entity: entityFromNode(dbNode), Distance: int(d)})
	}
	return hits, nil
}

// SearchChunksByText finds chunks whose text matches the query using
// the configured method.
func (s *Neo4jStore) SearchChunksByText(ctx context.Context, text, method string, limit int) ([]*types.Chunk, error) {
	var query string
	params := map[string]any{"text": text, "limit": limit}

	switch method {
	case TextMethodFulltext:
		query = fmt.Sprintf(`
			CALL db.index.fulltext.queryNodes('%s', $text) YIELD node, score
			RETURN node AS c
			LIMIT $limit
		`, fulltextIndexName)
	case TextMethodRegex:
		query = `
			MATCH (c:Chunk)
			WHERE c.text =~ $text
			RETURN c
			LIMIT $limit
		`
	case TextMethodContains, "":
		query = `
			MATCH (c:Chunk)
			WHERE toLower(c.text) CONTAINS toLower($text)
			RETURN c
			LIMIT $limit
		`
	default:
		return nil, fmt.Errorf("unknown text search method %q", method)
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("search chunks by text: %w", err)
	}
	return chunksFromRecords(result, "c")
}

// SearchChunksByTerms finds chunks by key-term overlap, ordered by how
// many query terms hit.
func (s *Neo4jStore) SearchChunksByTerms(ctx context.Context, terms []string, limit int) ([]TermMatch, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			UNWIND $terms AS term
			MATCH (c:Chunk)
			WHERE any(k IN coalesce(c.key_terms, []) WHERE toLower(k) = toLower(term))
			WITH c, count(DISTINCT term) AS matches
			RETURN c, matches
			ORDER BY matches DESC, c.id
			LIMIT $limit
		`
		res, err := tx.Run(ctx, query, map[string]any{"terms": terms, "limit": limit})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("search chunks by terms: %w", err)
	}

	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", result)
	}
	matches := make([]TermMatch, 0, len(records))
	for _, record := range records {
		node, found := record.Get("c")
		if !found {
			continue
		}
		dbNode, ok := node.(dbtype.Node)
		if !ok {
			continue
		}
		count, _ := record.Get("matches")
		n, _ := count.(int64)
		matches = append(matches, TermMatch{Chunk: chunkFromNode(dbNode), MatchCount: int(n)})
	}
	return matches, nil
}

// SearchChunksByTemporalRefs finds chunks whose stored temporal
// references contain any of the hints.
func (s *Neo4jStore) SearchChunksByTemporalRefs(ctx context.Context, hints []string, limit int) ([]*types.Chunk, error) {
	if len(hints) == 0 {
		return nil, nil
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (c:Chunk)
			WHERE any(ref IN coalesce(c.temporal_refs, [])
			      WHERE any(h IN $hints WHERE toLower(ref) CONTAINS toLower(h)))
			RETURN c
			LIMIT $limit
		`
		res, err := tx.Run(ctx, query, map[string]any{"hints": hints, "limit": limit})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("search chunks by temporal refs: %w", err)
	}
	return chunksFromRecords(result, "c")
}

// ChunkWindow returns the neighbors of a chunk within the index window
// [index-before, index+after] of the same document, ordered by index.
// The origin chunk itself is excluded.
func (s *Neo4jStore) ChunkWindow(ctx context.Context, chunkID string, before, after int) ([]*types.Chunk, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (c:Chunk {id: $id})
			MATCH (n:Chunk {document_id: c.document_id})
			WHERE n.chunk_index >= c.chunk_index - $before
			  AND n.chunk_index <= c.chunk_index + $after
			  AND n.id <> c.id
			RETURN n
			ORDER BY n.chunk_index
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"id":     chunkID,
			"before": before,
			"after":  after,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("chunk window for %s: %w", chunkID, err)
	}
	return chunksFromRecords(result, "n")
}

// RelationshipsBetween returns schema-typed edges whose both endpoints
// are in the id set.
func (s *Neo4jStore) RelationshipsBetween(ctx context.Context, entityIDs []string) ([]*types.Relationship, error) {
	if len(entityIDs) < 2 {
		return nil, nil
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (a:Entity)-[r]->(b:Entity)
			WHERE a.id IN $ids AND b.id IN $ids
			  AND NOT type(r) IN $infra
			RETURN r, type(r) AS relType, a.id AS sourceID, b.id AS targetID
		`
		res, err := tx.Run(ctx, query, map[string]any{"ids": entityIDs, "infra": infraRelTypes})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("relationships between entities: %w", err)
	}

	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", result)
	}
	rels := make([]*types.Relationship, 0, len(records))
	for _, record := range records {
		raw, found := record.Get("r")
		if !found {
			continue
		}
		dbRel, ok := raw.(dbtype.Relationship)
		if !ok {
			continue
		}
		relType, _ := record.Get("relType")
		sourceID, _ := record.Get("sourceID")
		targetID, _ := record.Get("targetID")

		rel := &types.Relationship{
			Type:       asString(relType),
			SourceID:   asString(sourceID),
			TargetID:   asString(targetID),
			Properties: map[string]any{},
		}
		for k, v := range dbRel.Props {
			switch k {
			case "id":
				rel.ID = asString(v)
			case "confidence":
				if f, ok := v.(float64); ok {
					rel.Confidence = f
				}
			default:
				rel.Properties[k] = v
			}
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// ChunkEntities returns entities extracted from a chunk.
func (s *Neo4jStore) ChunkEntities(ctx context.Context, chunkID string) ([]*types.Entity, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity)-[:EXTRACTED_FROM]->(c:Chunk {id: $id})
			RETURN e
			ORDER BY e.id
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": chunkID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("entities of chunk %s: %w", chunkID, err)
	}
	return entitiesFromRecords(result, "e")
}

// EntityChunks returns the chunks an entity was extracted from.
func (s *Neo4jStore) EntityChunks(ctx context.Context, entityID string) ([]*types.Chunk, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (e:Entity {id: $id})-[:EXTRACTED_FROM]->(c:Chunk)
			RETURN c
			ORDER BY c.document_id, c.chunk_index
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": entityID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("chunks of entity %s: %w", entityID, err)
	}
	return chunksFromRecords(result, "c")
}

// GetDocument fetches a document node by id.
func (s *Neo4jStore) GetDocument(ctx context.Context, documentID string) (*types.Document, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (d:Document {id: $id})
			RETURN d
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": documentID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}

	records, _ := result.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	raw, _ := records[0].Get("d")
	node, ok := raw.(dbtype.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected node type %T", raw)
	}
	return documentFromNode(node), nil
}

// ListDocumentChunks returns a document's chunks ordered by index.
func (s *Neo4jStore) ListDocumentChunks(ctx context.Context, documentID string) ([]*types.Chunk, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (c:Chunk {document_id: $id})
			RETURN c
			ORDER BY c.chunk_index
		`
		res, err := tx.Run(ctx, query, map[string]any{"id": documentID})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list chunks of document %s: %w", documentID, err)
	}
	return chunksFromRecords(result, "c")
}

// DeleteDocument removes the document node and all its chunks. Entities
// stay; their provenance edges to the deleted chunks go with the
// chunks.
func (s *Neo4jStore) DeleteDocument(ctx context.Context, documentID string) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			OPTIONAL MATCH (c:Chunk {document_id: $id})
			OPTIONAL MATCH (d:Document {id: $id})
			DETACH DELETE c, d
		`
		_, err := tx.Run(ctx, query, map[string]any{"id": documentID})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

// Clear wipes the whole graph.
func (s *Neo4jStore) Clear(ctx context.Context) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MATCH (n) DETACH DELETE n`, nil)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("clear graph: %w", err)
	}
	return nil
}

// Node and relationship totals run as separate statements; combining
// them in one MATCH walks the node-by-relationship cross product.
const (
	countNodesQuery         = `MATCH (n) RETURN count(n) AS n`
	countRelationshipsQuery = `MATCH ()-[r]->() RETURN count(r) AS n`
)

// Stats summarizes graph contents, splitting schema entities from the
// document/chunk infrastructure.
func (s *Neo4jStore) Stats(ctx context.Context) (*types.GraphStats, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	stats := &types.GraphStats{
		EntitiesByType:      map[string]int{},
		RelationshipsByType: map[string]int{},
	}

	_, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, countNodesQuery, nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		stats.TotalNodes = intField(record, "n")

		res, err = tx.Run(ctx, countRelationshipsQuery, nil)
		if err != nil {
			return nil, err
		}
		if record, err = res.Single(ctx); err != nil {
			return nil, err
		}
		stats.TotalRelationships = intField(record, "n")

		res, err = tx.Run(ctx, `
			MATCH (d:Document)
			RETURN count(d) AS n
		`, nil)
		if err != nil {
			return nil, err
		}
		if record, err = res.Single(ctx); err != nil {
			return nil, err
		}
		stats.Documents = intField(record, "n")

		res, err = tx.Run(ctx, `
			MATCH (c:Chunk)
			RETURN count(c) AS n
		`, nil)
		if err != nil {
			return nil, err
		}
		if record, err = res.Single(ctx); err != nil {
			return nil, err
		}
		stats.Chunks = intField(record, "n")

		res, err = tx.Run(ctx, `
			MATCH (e:Entity)
			RETURN e.entity_type AS t, count(e) AS n
		`, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if t, _ := r.Get("t"); t != nil {
				stats.EntitiesByType[asString(t)] = intField(r, "n")
			}
		}

		res, err = tx.Run(ctx, `
			MATCH ()-[r]->()
			RETURN type(r) AS t, count(r) AS n
		`, nil)
		if err != nil {
			return nil, err
		}
		if records, err = res.Collect(ctx); err != nil {
			return nil, err
		}
		for _, r := range records {
			t := asString(mustGet(r, "t"))
			n := intField(r, "n")
			switch t {
			case "NEXT_CHUNK", "PREV_CHUNK", "FROM_DOCUMENT":
				stats.ChainEdges += n
			case "EXTRACTED_FROM":
				stats.ProvenanceEdges += n
			default:
				stats.RelationshipsByType[t] = n
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph stats: %w", err)
	}
	return stats, nil
}

// EnsureIndexes creates the range indexes for document and chunk lookup
// plus per-entity-type id/name indexes, and the fulltext index backing
// fulltext chunk search. Idempotent.
func (s *Neo4jStore) EnsureIndexes(ctx context.Context, entityTypes []string) error {
	statements := []string{
		`CREATE INDEX document_id IF NOT EXISTS FOR (d:Document) ON (d.id)`,
		`CREATE INDEX chunk_id IF NOT EXISTS FOR (c:Chunk) ON (c.id)`,
		`CREATE INDEX chunk_document IF NOT EXISTS FOR (c:Chunk) ON (c.document_id, c.chunk_index)`,
		`CREATE INDEX entity_id IF NOT EXISTS FOR (e:Entity) ON (e.id)`,
		fmt.Sprintf(`CREATE FULLTEXT INDEX %s IF NOT EXISTS FOR (c:Chunk) ON EACH [c.text]`, fulltextIndexName),
	}
	for _, t := range entityTypes {
		label, err := safeLabel(t)
		if err != nil {
			return err
		}
		statements = append(statements,
			fmt.Sprintf(`CREATE INDEX %s_id IF NOT EXISTS FOR (e:%s) ON (e.id)`, strings.ToLower(label), label),
			fmt.Sprintf(`CREATE INDEX %s_name IF NOT EXISTS FOR (e:%s) ON (e.name)`, strings.ToLower(label), label),
		)
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Ping verifies connectivity.
func (s *Neo4jStore) Ping(ctx context.Context) error {
	return s.client.VerifyConnectivity(ctx)
}

// Close releases the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// record decoding helpers

func entitiesFromRecords(result any, key string) ([]*types.Entity, error) {
	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", result)
	}
	entities := make([]*types.Entity, 0, len(records))
	for _, record := range records {
		raw, found := record.Get(key)
		if !found {
			continue
		}
		node, ok := raw.(dbtype.Node)
		if !ok {
			continue
		}
		entities = append(entities, entityFromNode(node))
	}
	return entities, nil
}

func chunksFromRecords(result any, key string) ([]*types.Chunk, error) {
	records, ok := result.([]*neo4j.Record)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", result)
	}
	chunks := make([]*types.Chunk, 0, len(records))
	for _, record := range records {
		raw, found := record.Get(key)
		if !found {
			continue
		}
		node, ok := raw.(dbtype.Node)
		if !ok {
			continue
		}
		chunks = append(chunks, chunkFromNode(node))
	}
	return chunks, nil
}

func entityFromNode(node dbtype.Node) *types.Entity {
	e := &types.Entity{Properties: map[string]any{}}
	for k, v := range node.Props {
		switch k {
		case "id":
			e.ID = asString(v)
		case "entity_type":
			e.Type = asString(v)
		case "confidence":
			if f, ok := v.(float64); ok {
				e.Confidence = f
			}
		default:
			e.Properties[k] = v
		}
	}
	return e
}

func chunkFromNode(node dbtype.Node) *types.Chunk {
	c := &types.Chunk{}
	for k, v := range node.Props {
		switch k {
		case "id":
			c.ID = asString(v)
		case "document_id":
			c.DocumentID = asString(v)
		case "chunk_index":
			c.ChunkIndex = asInt(v)
		case "text":
			c.Text = asString(v)
		case "page_number":
			n := asInt(v)
			c.PageNumber = &n
		case "section_heading":
			h := asString(v)
			c.SectionHeading = &h
		case "temporal_refs":
			c.TemporalRefs = asStrings(v)
		case "key_terms":
			c.KeyTerms = asStrings(v)
		case "word_count":
			c.WordCount = asInt(v)
		case "char_count":
			c.CharCount = asInt(v)
		}
	}
	return c
}

func documentFromNode(node dbtype.Node) *types.Document {
	d := &types.Document{}
	for k, v := range node.Props {
		switch k {
		case "id":
			d.ID = asString(v)
		case "filename":
			d.Filename = asString(v)
		case "page_count":
			d.PageCount = asInt(v)
		case "ingested_at":
			if t, err := time.Parse(time.RFC3339, asString(v)); err == nil {
				d.IngestedAt = t
			}
		case "metadata_json":
			var meta map[string]any
			if err := json.Unmarshal([]byte(asString(v)), &meta); err == nil {
				d.Metadata = meta
			}
		}
	}
	return d
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intField(record *neo4j.Record, key string) int {
	v, _ := record.Get(key)
	return asInt(v)
}

func mustGet(record *neo4j.Record, key string) any {
	v, _ := record.Get(key)
	return v
}
