// Package docugraph ingests pre-chunked documents into a Neo4j property
// graph and answers questions over it by combining four independent
// retrieval signals (graph traversal, chunk text search, keyword
// matching, temporal filtering) into one ranked, deduplicated,
// budget-bounded context block.
//
// Ingestion and retrieval behavior is governed by runtime-tunable
// strategies: the extraction strategy decides what gets stored and
// linked, the retrieval strategy decides which signals run, how their
// scores combine, and how much context comes back. Strategy pairs load
// from named presets and accept partial live updates without touching
// already-stored data.
package docugraph
