package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// documentsTable holds the records of every namespace in the SQL backends
const documentsTable = "signup_documents"

// Namespace addresses one collection inside one database
type Namespace struct {
	Database   string
	Collection string
}

// String returns "database.collection", the key used by the SQL backends
func (ns Namespace) String() string {
	return ns.Database + "." + ns.Collection
}

// Document is a record that already carries its identity
type Document interface {
	DocumentID() string
	CreatedTime() time.Time
}

// DocumentStore persists signup records. Implementations are safe for concurrent use.
type DocumentStore interface {
	// InsertOne stores doc in ns
	InsertOne(ctx context.Context, ns Namespace, doc Document) error
	// FindAll decodes every document of ns, in insertion order, into results (a pointer to a slice)
	FindAll(ctx context.Context, ns Namespace, results any) error
	// NewID returns an identifier in the format the backend uses for _id
	NewID() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// decodeBodies turns stored JSON documents into the caller's slice
func decodeBodies(bodies []string, results any) error {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, b := range bodies {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(b)
	}
	sb.WriteByte(']')

	if err := json.Unmarshal([]byte(sb.String()), results); err != nil {
		return fmt.Errorf("failed to decode documents: %w", err)
	}
	return nil
}
