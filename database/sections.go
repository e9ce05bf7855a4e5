package database

import (
	"context"
	dbsql "database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/siherrmann/paperrag/helper"
	"github.com/siherrmann/paperrag/model"
	"github.com/siherrmann/paperrag/sql"
)

// SectionsDBHandlerFunctions defines the interface for the section cache operations.
type SectionsDBHandlerFunctions interface {
	UpsertSection(section *model.Section) error
	SelectSectionsByDocument(documentRID uuid.UUID) ([]*model.Section, error)
}

// SectionsDBHandler handles the durable per-(document, category) section cache
type SectionsDBHandler struct {
	db *helper.Database
}

// NewSectionsDBHandler creates a new sections database handler.
// It initializes the database connection and loads section-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSectionsDBHandler(db *helper.Database, force bool) (*SectionsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	sectionsDbHandler := &SectionsDBHandler{
		db: db,
	}

	err := sql.LoadSectionsSql(sectionsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load sections sql", err)
	}

	err = sectionsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SectionsDBHandler")

	return sectionsDbHandler, nil
}

// CreateTable creates the 'sections' table in the database.
// If the table already exists, it does not create it again.
func (h *SectionsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_sections();`)
	if err != nil {
		log.Panicf("error initializing sections table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table sections")

	return nil
}

// UpsertSection inserts or fully overwrites one category's section
func (h *SectionsDBHandler) UpsertSection(section *model.Section) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM upsert_section($1, $2, $3, $4)`,
		section.DocumentRID,
		section.Category,
		section.Content,
		pq.Array(section.SourceChunks),
	)

	err := row.Scan(
		&section.ID,
		&section.DocumentID,
		&section.DocumentRID,
		&section.Category,
		&section.Content,
		pq.Array(&section.SourceChunks),
		&section.CreatedAt,
	)
	if errors.Is(err, dbsql.ErrNoRows) {
		return helper.NewKindError(helper.KindNotFound, "upsert section", fmt.Errorf("no document with id %s", section.DocumentRID))
	}
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectSectionsByDocument retrieves all cached sections of a document
func (h *SectionsDBHandler) SelectSectionsByDocument(documentRID uuid.UUID) ([]*model.Section, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_sections_by_document($1)`,
		documentRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var sections []*model.Section
	for rows.Next() {
		section := &model.Section{}
		err := rows.Scan(
			&section.ID,
			&section.DocumentID,
			&section.DocumentRID,
			&section.Category,
			&section.Content,
			pq.Array(&section.SourceChunks),
			&section.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		sections = append(sections, section)
	}

	return sections, rows.Err()
}
