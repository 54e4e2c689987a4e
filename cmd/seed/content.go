package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"konstruksi-backend/internal/httpx"
	"konstruksi-backend/internal/insights"
	"konstruksi-backend/internal/pages"
	"konstruksi-backend/internal/products"
	"konstruksi-backend/internal/projects"
	"konstruksi-backend/internal/validation"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedSpec struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type seedProduct struct {
	Slug           string     `yaml:"slug"`
	Name           string     `yaml:"name"`
	Category       string     `yaml:"category"`
	Summary        string     `yaml:"summary"`
	Description    string     `yaml:"description"`
	Specifications []seedSpec `yaml:"specifications"`
	Image          string     `yaml:"image"`
	SortOrder      int        `yaml:"sort_order"`
}

type seedProject struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category"`
	Client      string   `yaml:"client"`
	Value       string   `yaml:"value"`
	Location    string   `yaml:"location"`
	Period      string   `yaml:"period"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	CoverImage  string   `yaml:"cover_image"`
	Images      []string `yaml:"images"`
	SortOrder   int      `yaml:"sort_order"`
}

type seedGalleryProject struct {
	Title     string `yaml:"title"`
	Category  string `yaml:"category"`
	Client    string `yaml:"client"`
	Value     string `yaml:"value"`
	Image     string `yaml:"image"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	SortOrder int    `yaml:"sort_order"`
}

type seedSection struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
	Image   string `yaml:"image"`
}

type seedPage struct {
	Key      string        `yaml:"key"`
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Sections []seedSection `yaml:"sections"`
}

type seedInsight struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Excerpt     string   `yaml:"excerpt"`
	Body        string   `yaml:"body"`
	CoverImage  string   `yaml:"cover_image"`
	Author      string   `yaml:"author"`
	Tags        []string `yaml:"tags"`
	PublishedAt string   `yaml:"published_at"`
}

type seedFile struct {
	Products        []seedProduct        `yaml:"products"`
	Projects        []seedProject        `yaml:"projects"`
	GalleryProjects []seedGalleryProject `yaml:"gallery_projects"`
	Pages           []seedPage           `yaml:"pages"`
	Insights        []seedInsight        `yaml:"insights"`
}

// contentPlan holds the seed file converted to API requests, already
// validated with the same rules as the admin endpoints.
type contentPlan struct {
	Products        []products.UpsertRequest
	Projects        []projects.UpsertRequest
	GalleryProjects []projects.GalleryUpsertRequest
	Pages           map[string]pages.UpsertRequest
	PageKeys        []string
	Insights        []insights.UpsertRequest
}

func parseSeed(data []byte, val *validation.Validator) (contentPlan, error) {
	var file seedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return contentPlan{}, fmt.Errorf("decode seed: %w", err)
	}

	published := true
	plan := contentPlan{Pages: map[string]pages.UpsertRequest{}}
	check := func(kind, name string, req interface{}) error {
		if err := val.Struct(req); err != nil {
			return fmt.Errorf("%s %q: %v", kind, name, httpx.ValidationDetails(val.ValidationErrors(err)))
		}
		return nil
	}

	for _, p := range file.Products {
		specs := make([]products.Specification, 0, len(p.Specifications))
		for _, s := range p.Specifications {
			specs = append(specs, products.Specification{Label: s.Label, Value: s.Value})
		}
		sort := p.SortOrder
		req := products.UpsertRequest{
			Slug:           p.Slug,
			Name:           p.Name,
			Category:       p.Category,
			Summary:        p.Summary,
			Description:    p.Description,
			Specifications: specs,
			Image:          p.Image,
			IsPublished:    &published,
			SortOrder:      &sort,
		}
		if err := check("product", p.Name, req); err != nil {
			return contentPlan{}, err
		}
		plan.Products = append(plan.Products, req)
	}

	for _, p := range file.Projects {
		sort := p.SortOrder
		req := projects.UpsertRequest{
			Slug:        p.Slug,
			Title:       p.Title,
			Category:    p.Category,
			ClientName:  p.Client,
			Value:       p.Value,
			Location:    p.Location,
			Period:      p.Period,
			Summary:     p.Summary,
			Description: p.Description,
			CoverImage:  p.CoverImage,
			Images:      p.Images,
			IsPublished: &published,
			SortOrder:   &sort,
		}
		if err := check("project", p.Title, req); err != nil {
			return contentPlan{}, err
		}
		plan.Projects = append(plan.Projects, req)
	}

	for _, g := range file.GalleryProjects {
		sort := g.SortOrder
		req := projects.GalleryUpsertRequest{
			Title:       g.Title,
			Category:    g.Category,
			ClientName:  g.Client,
			Value:       g.Value,
			Image:       g.Image,
			StartDate:   g.StartDate,
			EndDate:     g.EndDate,
			IsPublished: &published,
			SortOrder:   &sort,
		}
		if err := check("gallery project", g.Title, req); err != nil {
			return contentPlan{}, err
		}
		plan.GalleryProjects = append(plan.GalleryProjects, req)
	}

	for _, p := range file.Pages {
		sections := make([]pages.Section, 0, len(p.Sections))
		for _, s := range p.Sections {
			sections = append(sections, pages.Section{Heading: s.Heading, Body: s.Body, Image: s.Image})
		}
		req := pages.UpsertRequest{Title: p.Title, Subtitle: p.Subtitle, Sections: sections}
		if err := check("page", p.Key, req); err != nil {
			return contentPlan{}, err
		}
		if _, dup := plan.Pages[p.Key]; dup {
			return contentPlan{}, fmt.Errorf("page %q listed twice", p.Key)
		}
		plan.Pages[p.Key] = req
		plan.PageKeys = append(plan.PageKeys, p.Key)
	}

	for _, in := range file.Insights {
		req := insights.UpsertRequest{
			Slug:        in.Slug,
			Title:       in.Title,
			Excerpt:     in.Excerpt,
			Body:        in.Body,
			CoverImage:  in.CoverImage,
			Author:      in.Author,
			Tags:        in.Tags,
			IsPublished: &published,
			PublishedAt: in.PublishedAt,
		}
		if err := check("insight", in.Title, req); err != nil {
			return contentPlan{}, err
		}
		plan.Insights = append(plan.Insights, req)
	}

	return plan, nil
}

type contentServices struct {
	Products *products.Service
	Projects *projects.Service
	Pages    *pages.Service
	Insights *insights.Service
}

const galleryBatch int64 = 100

type seedReport struct {
	Created int
	Skipped int
}

// applyContent inserts whatever is missing. Existing slugs and page keys are
// left untouched so edits made in the admin panel survive a re-seed.
func applyContent(ctx context.Context, svc contentServices, plan contentPlan) (seedReport, error) {
	var report seedReport
	tally := func(err error, exists error) error {
		switch {
		case err == nil:
			report.Created++
		case errors.Is(err, exists):
			report.Skipped++
		default:
			return err
		}
		return nil
	}

	for _, req := range plan.Products {
		_, err := svc.Products.Create(ctx, req)
		if err := tally(err, products.ErrSlugExists); err != nil {
			return report, fmt.Errorf("product %q: %w", req.Name, err)
		}
	}
	for _, req := range plan.Projects {
		_, err := svc.Projects.CreateProject(ctx, req)
		if err := tally(err, projects.ErrSlugExists); err != nil {
			return report, fmt.Errorf("project %q: %w", req.Title, err)
		}
	}

	seen := map[string]bool{}
	for offset := int64(0); ; offset += galleryBatch {
		batch, _, err := svc.Projects.ListGalleryAdmin(ctx, projects.AdminListFilter{}, galleryBatch, offset)
		if err != nil {
			return report, fmt.Errorf("list gallery projects: %w", err)
		}
		for _, g := range batch {
			seen[galleryKey(g.Title, g.Category)] = true
		}
		if int64(len(batch)) < galleryBatch {
			break
		}
	}
	for _, req := range plan.GalleryProjects {
		key := galleryKey(req.Title, req.Category)
		if seen[key] {
			report.Skipped++
			continue
		}
		if _, err := svc.Projects.CreateGalleryProject(ctx, req); err != nil {
			return report, fmt.Errorf("gallery project %q: %w", req.Title, err)
		}
		seen[key] = true
		report.Created++
	}

	for _, key := range plan.PageKeys {
		_, err := svc.Pages.Get(ctx, key)
		switch {
		case err == nil:
			report.Skipped++
			continue
		case !errors.Is(err, pages.ErrNotFound):
			return report, fmt.Errorf("page %q: %w", key, err)
		}
		if _, err := svc.Pages.Upsert(ctx, key, plan.Pages[key], "seed"); err != nil {
			return report, fmt.Errorf("page %q: %w", key, err)
		}
		report.Created++
	}

	for _, req := range plan.Insights {
		_, err := svc.Insights.Create(ctx, req)
		if err := tally(err, insights.ErrSlugExists); err != nil {
			return report, fmt.Errorf("insight %q: %w", req.Title, err)
		}
	}

	return report, nil
}

func galleryKey(title, category string) string {
	return strings.ToLower(strings.TrimSpace(category)) + "|" + strings.ToLower(strings.TrimSpace(title))
}
