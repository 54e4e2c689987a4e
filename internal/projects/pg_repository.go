package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const projectColumns = `id, slug, title, category, client_name, value, location, period, summary,
	description, cover_image, images, is_published, sort_order, created_at, updated_at`

const galleryColumns = `id, title, category, client_name, value, image, start_date, end_date,
	is_published, sort_order, created_at, updated_at`

// PgProjectRepository is the Postgres implementation of ProjectRepository.
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

func (r *PgProjectRepository) Create(ctx context.Context, item Project) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		item.ID, item.Slug, item.Title, item.Category, item.ClientName, item.Value, item.Location,
		item.Period, item.Summary, item.Description, item.CoverImage, nonNilStrings(item.Images),
		item.IsPublished, item.SortOrder, item.CreatedAt, item.UpdatedAt,
	)
	return mapPgError(err)
}

func (r *PgProjectRepository) Update(ctx context.Context, id string, item Project) (Project, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE projects SET slug = $2, title = $3, category = $4, client_name = $5, value = $6,
		 location = $7, period = $8, summary = $9, description = $10, cover_image = $11, images = $12,
		 is_published = $13, sort_order = $14, updated_at = $15
		 WHERE id = $1
		 RETURNING `+projectColumns,
		id, item.Slug, item.Title, item.Category, item.ClientName, item.Value, item.Location,
		item.Period, item.Summary, item.Description, item.CoverImage, nonNilStrings(item.Images),
		item.IsPublished, item.SortOrder, item.UpdatedAt,
	)
	updated, err := scanProject(row)
	if err != nil {
		return Project{}, mapPgError(err)
	}
	return updated, nil
}

func (r *PgProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgProjectRepository) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = $1 AND is_published`, slug)
	item, err := scanProject(row)
	if err != nil {
		return Project{}, mapPgError(err)
	}
	return item, nil
}

func (r *PgProjectRepository) ListPublished(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE is_published
		 ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProject)
}

func (r *PgProjectRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE ($1::text = '' OR category = $1)
		 ORDER BY sort_order ASC, created_at DESC LIMIT $2 OFFSET $3`,
		filter.Category, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProject)
}

func (r *PgProjectRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE ($1::text = '' OR category = $1)`, filter.Category).Scan(&total)
	return total, err
}

// PgGalleryRepository is the Postgres implementation of GalleryRepository.
type PgGalleryRepository struct {
	pool *pgxpool.Pool
}

func NewPgGalleryRepository(pool *pgxpool.Pool) *PgGalleryRepository {
	return &PgGalleryRepository{pool: pool}
}

func (r *PgGalleryRepository) Create(ctx context.Context, item GalleryProject) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO gallery_projects (`+galleryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		item.ID, item.Title, item.Category, item.ClientName, item.Value, item.Image,
		item.StartDate, item.EndDate, item.IsPublished, item.SortOrder, item.CreatedAt, item.UpdatedAt,
	)
	return mapPgError(err)
}

func (r *PgGalleryRepository) Update(ctx context.Context, id string, item GalleryProject) (GalleryProject, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE gallery_projects SET title = $2, category = $3, client_name = $4, value = $5,
		 image = $6, start_date = $7, end_date = $8, is_published = $9, sort_order = $10, updated_at = $11
		 WHERE id = $1
		 RETURNING `+galleryColumns,
		id, item.Title, item.Category, item.ClientName, item.Value, item.Image,
		item.StartDate, item.EndDate, item.IsPublished, item.SortOrder, item.UpdatedAt,
	)
	updated, err := scanGallery(row)
	if err != nil {
		return GalleryProject{}, mapPgError(err)
	}
	return updated, nil
}

func (r *PgGalleryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gallery_projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgGalleryRepository) ListPublished(ctx context.Context) ([]GalleryProject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+galleryColumns+` FROM gallery_projects WHERE is_published
		 ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanGallery)
}

func (r *PgGalleryRepository) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]GalleryProject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+galleryColumns+` FROM gallery_projects WHERE ($1::text = '' OR category = $1)
		 ORDER BY sort_order ASC, created_at DESC LIMIT $2 OFFSET $3`,
		filter.Category, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanGallery)
}

func (r *PgGalleryRepository) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM gallery_projects WHERE ($1::text = '' OR category = $1)`, filter.Category).Scan(&total)
	return total, err
}

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Category, &p.ClientName, &p.Value, &p.Location,
		&p.Period, &p.Summary, &p.Description, &p.CoverImage, &p.Images, &p.IsPublished,
		&p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanGallery(row pgx.Row) (GalleryProject, error) {
	var g GalleryProject
	err := row.Scan(&g.ID, &g.Title, &g.Category, &g.ClientName, &g.Value, &g.Image,
		&g.StartDate, &g.EndDate, &g.IsPublished, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrSlugExists
	}
	return err
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
