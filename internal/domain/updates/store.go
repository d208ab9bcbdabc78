package updates

import (
	"context"
	"fmt"

	"sitefeed/internal/infra/dbx"

	"github.com/google/uuid"
)

type Store interface {
	ListDocuments(ctx context.Context) ([]Document, error)
	Append(ctx context.Context, post *Post) (string, error)
	EntryExists(ctx context.Context, documentID, updateID string) (bool, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

// ListDocuments returns every document with its entries in posting order.
// Reviews are not joined; clients load them per entry.
func (r *Repository) ListDocuments(ctx context.Context) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	docQuery := `
        SELECT id, section_id, section_type, name, created_at, updated_at
        FROM update_documents
        ORDER BY created_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, docQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	docs := []Document{}
	index := make(map[string]int)
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.SectionID, &d.SectionType, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		d.Updates = []Entry{}
		index[d.ID] = len(docs)
		docs = append(docs, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return docs, nil
	}

	entryQuery := `
        SELECT id, document_id, images, title, description, created_at
        FROM update_entries
        ORDER BY seq ASC
    `
	rows, err = r.db.Query(ctx, entryQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e     Entry
			docID string
		)
		if err := rows.Scan(&e.ID, &docID, &e.Images, &e.Title, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		i, ok := index[docID]
		if !ok {
			continue
		}
		docs[i].Updates = append(docs[i].Updates, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Append creates the section's document if it does not exist yet and appends the
// posted entries to it. Run it inside a transaction so a partial insert is not
// visible. It returns the document id.
func (r *Repository) Append(ctx context.Context, post *Post) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	upsert := `
        INSERT INTO update_documents (id, section_id, section_type, name)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (section_id)
        DO UPDATE SET updated_at = NOW()
        RETURNING id
    `
	var documentID string
	err := r.db.QueryRow(ctx, upsert, uuid.NewString(), post.SectionID, post.SectionType, post.Name).Scan(&documentID)
	if err != nil {
		return "", fmt.Errorf("failed to upsert document: %w", err)
	}

	insert := `
        INSERT INTO update_entries (id, document_id, images, title, description)
        VALUES ($1, $2, $3, $4, $5)
    `
	for _, e := range post.Updates {
		if _, err := r.db.Exec(ctx, insert, uuid.NewString(), documentID, e.Images, e.Title, e.Description); err != nil {
			return "", fmt.Errorf("failed to insert entry: %w", err)
		}
	}
	return documentID, nil
}

func (r *Repository) EntryExists(ctx context.Context, documentID, updateID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	query := `
        SELECT EXISTS (
          SELECT 1 FROM update_entries
          WHERE id = $1 AND document_id = $2
        )
    `
	err := r.db.QueryRow(ctx, query, updateID, documentID).Scan(&exists)
	return exists, err
}
