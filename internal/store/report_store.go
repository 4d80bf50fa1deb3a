package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/foodlens/internal/domain"
)

var ErrReportNotFound = errors.New("report not found")

// ReportStore keeps finished reports. Structured parts are stored as JSON
// columns.
type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

const reportColumns = `id, template, request, raw_text, fields, charts, photo_url, photo_key, nutrients, sections, warnings, created_at`

// Save inserts r, assigning an ID and creation time when they are unset.
func (s *ReportStore) Save(ctx context.Context, r *domain.Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	cols, err := marshalColumns(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, template, subject, request, raw_text, fields, charts, photo_url, photo_key, nutrients, sections, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, string(r.Template), r.Request.SubjectText, cols.request, r.RawText, cols.fields, cols.charts,
		nullString(r.PhotoURL), nullString(r.PhotoKey), cols.nutrients, cols.sections, cols.warnings, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (s *ReportStore) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return r, nil
}

// List returns the newest reports first.
func (s *ReportStore) List(ctx context.Context, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.query(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search matches subject text case-insensitively. The query is a plain
// substring; % and _ have no wildcard meaning.
func (s *ReportStore) Search(ctx context.Context, query string, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return s.query(ctx, `
		SELECT `+reportColumns+` FROM reports
		WHERE LOWER(subject) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC LIMIT ?
	`, pattern, limit)
}

// Delete removes a report and returns it so the caller can clean up its photo.
func (s *ReportStore) Delete(ctx context.Context, id string) (*domain.Report, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrReportNotFound
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete report: %w", err)
	}
	return r, nil
}

func (s *ReportStore) query(ctx context.Context, q string, args ...any) ([]*domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var reports []*domain.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

type jsonColumns struct {
	request, fields, charts, nutrients, sections, warnings string
}

func marshalColumns(r *domain.Report) (jsonColumns, error) {
	var cols jsonColumns
	targets := []struct {
		dst *string
		v   any
	}{
		{&cols.request, r.Request},
		{&cols.fields, r.Fields},
		{&cols.charts, emptyIfNil(r.Charts)},
		{&cols.nutrients, emptyIfNil(r.Nutrients)},
		{&cols.sections, emptyIfNil(r.Sections)},
		{&cols.warnings, emptyIfNil(r.Warnings)},
	}
	for _, t := range targets {
		b, err := json.Marshal(t.v)
		if err != nil {
			return cols, fmt.Errorf("failed to encode report: %w", err)
		}
		*t.dst = string(b)
	}
	return cols, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*domain.Report, error) {
	var (
		r                  domain.Report
		template           string
		cols               jsonColumns
		photoURL, photoKey sql.NullString
	)
	if err := row.Scan(&r.ID, &template, &cols.request, &r.RawText, &cols.fields, &cols.charts,
		&photoURL, &photoKey, &cols.nutrients, &cols.sections, &cols.warnings, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Template = domain.TemplateID(template)
	r.PhotoURL = photoURL.String
	r.PhotoKey = photoKey.String

	r.Fields = domain.NewExtractedFields()
	sources := []struct {
		src string
		dst any
	}{
		{cols.request, &r.Request},
		{cols.fields, &r.Fields},
		{cols.charts, &r.Charts},
		{cols.nutrients, &r.Nutrients},
		{cols.sections, &r.Sections},
		{cols.warnings, &r.Warnings},
	}
	for _, s := range sources {
		if err := json.Unmarshal([]byte(s.src), s.dst); err != nil {
			return nil, fmt.Errorf("failed to decode report %s: %w", r.ID, err)
		}
	}
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
