package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-scorer/internal/types"
)

const reportColumns = `id, source, total_score, sections, created_at`

// SaveReport stores a score report. Saving the same ID twice overwrites it.
func (db *DB) SaveReport(ctx context.Context, report *types.ScoreReport) error {
	sections, err := json.Marshal(report.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}

	scores := sectionScores(report)
	_, err = db.pool.Exec(ctx,
		`INSERT INTO score_reports
		   (id, source, skills_score, experience_score, achievements_score, projects_score, total_score, sections, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   source = $2, skills_score = $3, experience_score = $4, achievements_score = $5,
		   projects_score = $6, total_score = $7, sections = $8`,
		report.ID, report.Source,
		scores[types.CategorySkills], scores[types.CategoryExperience],
		scores[types.CategoryAchievements], scores[types.CategoryProjects],
		report.Total, sections, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// sectionScores maps each category to its score; missing categories score 0.
func sectionScores(report *types.ScoreReport) map[types.Category]float64 {
	scores := make(map[types.Category]float64, len(types.Categories))
	for _, s := range report.Sections {
		scores[s.Category] = s.Score
	}
	return scores
}

// GetReport retrieves a report by ID. Returns *ErrReportNotFound if it does not exist.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*types.ScoreReport, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM score_reports WHERE id = $1`, id)

	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrReportNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return report, nil
}

// ListReports retrieves reports, newest first, with optional filters
func (db *DB) ListReports(ctx context.Context, filters ReportFilters) ([]types.ScoreReport, error) {
	query, args := buildListQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []types.ScoreReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// DeleteReport deletes a report by ID
func (db *DB) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM score_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrReportNotFound{ID: id}
	}
	return nil
}

// buildListQuery builds the SELECT for ListReports with numbered placeholders.
func buildListQuery(filters ReportFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultListLimit
	}
	filters.Limit = min(filters.Limit, MaxListLimit)
	filters.Offset = max(filters.Offset, 0)

	query := `SELECT ` + reportColumns + ` FROM score_reports WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Source != "" {
		query += fmt.Sprintf(" AND source ILIKE $%d", argNum)
		args = append(args, "%"+filters.Source+"%")
		argNum++
	}
	if filters.MinTotal > 0 {
		query += fmt.Sprintf(" AND total_score >= $%d", argNum)
		args = append(args, filters.MinTotal)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)
	return query, args
}

func scanReport(row pgx.Row) (*types.ScoreReport, error) {
	var report types.ScoreReport
	var sections []byte
	if err := row.Scan(&report.ID, &report.Source, &report.Total, &sections, &report.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &report.Sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	return &report, nil
}
