// Package store keeps parsed bookmark documents in a SQLite database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"

	"github.com/progeja/nsbookmarks/internal/parser"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound means no document has the requested id
var ErrNotFound = errors.New("document not found")

// Store is a SQLite-backed document store
type Store struct {
	db *sql.DB
}

// Summary describes a stored document without its nodes
type Summary struct {
	ID         int64
	Source     string
	Title      string
	ImportedAt time.Time
	Folders    int
	Links      int
}

// Open opens (creating if needed) the database at path and applies the
// schema. An empty path or ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	var dsn string
	memory := path == "" || path == ":memory:"
	if memory {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else {
		// Apply PRAGMA's per-connection via DSN so the pool always has them.
		// The path is escaped so '?' or '#' in it cannot cut the query off.
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
			(&url.URL{Path: path}).EscapedPath(),
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		// every new connection would see a fresh empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument stores doc under a new id and returns it. Tree documents are
// stored flat.
func (s *Store) SaveDocument(ctx context.Context, source string, doc *parser.Document) (id int64, err error) {
	nodes := doc.List
	if doc.Tree {
		nodes = parser.Flatten(doc.List)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documents (source, doctype, title, heading, imported_at) VALUES (?, ?, ?, ?, ?)`,
		source, doc.Doctype, doc.Title, doc.Heading, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("document id: %w", err)
	}

	for pos, attrs := range doc.Meta {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO meta_entries (document_id, position) VALUES (?, ?)`,
			id, pos); err != nil {
			return 0, fmt.Errorf("insert meta entry: %w", err)
		}
		for seq, a := range attrs {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO meta (document_id, position, seq, name, value) VALUES (?, ?, ?, ?, ?)`,
				id, pos, seq, a.Name, a.Value); err != nil {
				return 0, fmt.Errorf("insert meta: %w", err)
			}
		}
	}

	for _, n := range nodes {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO nodes (document_id, id, parent, kind, text) VALUES (?, ?, ?, ?, ?)`,
			id, n.ID, n.Parent, string(n.Kind), n.Text); err != nil {
			return 0, fmt.Errorf("insert node %d: %w", n.ID, err)
		}
		for seq, a := range n.Attributes {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO node_attributes (document_id, node_id, seq, name, value) VALUES (?, ?, ?, ?, ?)`,
				id, n.ID, seq, a.Name, a.Value); err != nil {
				return 0, fmt.Errorf("insert attributes of node %d: %w", n.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// LoadDocument rebuilds a stored document, as a tree when asTree is set
func (s *Store) LoadDocument(ctx context.Context, id int64, asTree bool) (*parser.Document, error) {
	doc := &parser.Document{List: parser.Nodes{}}
	err := s.db.QueryRowContext(ctx,
		`SELECT doctype, title, heading FROM documents WHERE id = ?`, id,
	).Scan(&doc.Doctype, &doc.Title, &doc.Heading)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	} else if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}

	if err := s.loadMeta(ctx, id, doc); err != nil {
		return nil, err
	}
	if err := s.loadNodes(ctx, id, doc); err != nil {
		return nil, err
	}

	if asTree {
		doc.List = parser.ToTree(doc.List, 0)
		doc.Tree = true
	}
	return doc, nil
}

func (s *Store) loadMeta(ctx context.Context, id int64, doc *parser.Document) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.position, m.name, m.value
		FROM meta_entries e
		LEFT JOIN meta m ON m.document_id = e.document_id AND m.position = e.position
		WHERE e.document_id = ?
		ORDER BY e.position, m.seq`, id)
	if err != nil {
		return fmt.Errorf("select meta: %w", err)
	}
	defer rows.Close()

	last := -1
	for rows.Next() {
		var pos int
		var name, value sql.NullString
		if err := rows.Scan(&pos, &name, &value); err != nil {
			return fmt.Errorf("scan meta: %w", err)
		}
		if pos != last {
			doc.Meta = append(doc.Meta, parser.Attributes{})
			last = pos
		}
		// an entry without attributes comes back as a single NULL row
		if name.Valid {
			doc.Meta[len(doc.Meta)-1].Set(name.String, value.String)
		}
	}
	return rows.Err()
}

func (s *Store) loadNodes(ctx context.Context, id int64, doc *parser.Document) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent, kind, text FROM nodes WHERE document_id = ? ORDER BY id`, id)
	if err != nil {
		return fmt.Errorf("select nodes: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*parser.Node)
	for rows.Next() {
		n := &parser.Node{Attributes: parser.Attributes{}}
		var kind string
		if err := rows.Scan(&n.ID, &n.Parent, &kind, &n.Text); err != nil {
			return fmt.Errorf("scan node: %w", err)
		}
		n.Kind = parser.NodeKind(kind)
		doc.List = append(doc.List, n)
		byID[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return err
	}

	attrRows, err := s.db.QueryContext(ctx,
		`SELECT node_id, name, value FROM node_attributes WHERE document_id = ? ORDER BY node_id, seq`, id)
	if err != nil {
		return fmt.Errorf("select attributes: %w", err)
	}
	defer attrRows.Close()

	for attrRows.Next() {
		var nodeID int
		var name, value string
		if err := attrRows.Scan(&nodeID, &name, &value); err != nil {
			return fmt.Errorf("scan attribute: %w", err)
		}
		if n, ok := byID[nodeID]; ok {
			n.Attributes.Set(name, value)
		}
	}
	return attrRows.Err()
}

// Documents lists the stored documents, oldest first
func (s *Store) Documents(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.source, d.title, d.imported_at,
		       COALESCE(SUM(n.kind = 'head'), 0),
		       COALESCE(SUM(n.kind = 'item'), 0)
		FROM documents d
		LEFT JOIN nodes n ON n.document_id = d.id
		GROUP BY d.id
		ORDER BY d.id`)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	var result []Summary
	for rows.Next() {
		var sum Summary
		var importedAt string
		if err := rows.Scan(&sum.ID, &sum.Source, &sum.Title, &importedAt, &sum.Folders, &sum.Links); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if sum.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt); err != nil {
			return nil, fmt.Errorf("document %d: imported_at: %w", sum.ID, err)
		}
		result = append(result, sum)
	}
	return result, rows.Err()
}

// DeleteDocument removes a document and everything stored with it
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
