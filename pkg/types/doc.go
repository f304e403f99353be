// Package types defines the shared data model for the document graph:
// documents, chunks, schema-typed entities and relationships, query
// intents, and the scored candidate/result shapes produced by retrieval.
package types
