package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"konstruksi-backend/internal/auth"
	"konstruksi-backend/internal/cache"
	"konstruksi-backend/internal/config"
	"konstruksi-backend/internal/db"
	"konstruksi-backend/internal/handlers"
	"konstruksi-backend/internal/insights"
	"konstruksi-backend/internal/markdown"
	"konstruksi-backend/internal/media"
	"konstruksi-backend/internal/models"
	"konstruksi-backend/internal/pages"
	"konstruksi-backend/internal/products"
	"konstruksi-backend/internal/projects"
	"konstruksi-backend/internal/validation"
)

type seedUser struct {
	Username    string
	Email       string
	PasswordEnv string
}

type adminUpserter interface {
	UpsertUser(ctx context.Context, user models.User) error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Seed the site database with starter content and admin users",
		SilenceUsage: true,
	}

	var file string
	content := &cobra.Command{
		Use:   "content",
		Short: "Insert products, projects, gallery projects, pages and insights that are missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store) error {
				return seedContent(ctx, st, file)
			})
		},
	}
	content.Flags().StringVarP(&file, "file", "f", "", "seed YAML file (defaults to the embedded seed)")

	admin := &cobra.Command{
		Use:   "admin",
		Short: "Create or update admin users from ADMIN_USER/ADMIN_PASSWORD and ADMIN_USER_2/ADMIN_PASSWORD_2",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store) error {
				return seedAdmins(ctx, handlers.NewMongoUserStore(st.cols.Users), adminUsersFromEnv(), st.cfg.Timezone)
			})
		},
	}

	all := &cobra.Command{
		Use:   "all",
		Short: "Run content and admin seeding",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store) error {
				if err := seedContent(ctx, st, file); err != nil {
					return err
				}
				return seedAdmins(ctx, handlers.NewMongoUserStore(st.cols.Users), adminUsersFromEnv(), st.cfg.Timezone)
			})
		},
	}
	all.Flags().StringVarP(&file, "file", "f", "", "seed YAML file (defaults to the embedded seed)")

	root.AddCommand(content, admin, all)
	return root
}

type store struct {
	cfg   *config.Config
	cols  *db.Collections
	close []func()
}

func withStore(parent context.Context, fn func(ctx context.Context, st *store) error) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parent, 60*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	st := &store{cfg: cfg, cols: cols}
	defer func() {
		for _, c := range st.close {
			c()
		}
	}()
	return fn(ctx, st)
}

func (st *store) projectRepos(ctx context.Context) (projects.ProjectRepository, projects.GalleryRepository, error) {
	if st.cfg.ProjectsStore != config.ProjectsStorePostgres {
		return projects.NewMongoProjectRepository(st.cols.Projects), projects.NewMongoGalleryRepository(st.cols.GalleryProjects), nil
	}
	pool, err := db.NewPool(ctx, st.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	st.close = append(st.close, pool.Close)
	if err := db.EnsureProjectsSchema(ctx, pool); err != nil {
		return nil, nil, err
	}
	return projects.NewPgProjectRepository(pool), projects.NewPgGalleryRepository(pool), nil
}

func seedContent(ctx context.Context, st *store, file string) error {
	data := defaultSeed
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		data = raw
	}

	plan, err := parseSeed(data, validation.New())
	if err != nil {
		return err
	}

	projectRepo, galleryRepo, err := st.projectRepos(ctx)
	if err != nil {
		return err
	}

	// Seeding writes straight to the stores; a running API picks the new
	// content up once its cache entries expire.
	noop := cache.NewNoop()
	loc := st.cfg.Timezone
	images := media.NewResolver(st.cfg.ImageBaseURL, st.cfg.ImagePlaceholder)
	renderer := markdown.New()

	svc := contentServices{
		Products: products.NewService(products.NewRepository(st.cols.Products), noop, 0, loc, images),
		Projects: projects.NewService(projects.ServiceConfig{
			Projects: projectRepo,
			Gallery:  galleryRepo,
			Cache:    noop,
			Location: loc,
			Images:   images,
			Markdown: renderer,
		}),
		Pages:    pages.NewService(pages.NewRepository(st.cols.Pages), noop, 0, loc, images),
		Insights: insights.NewService(insights.NewRepository(st.cols.Insights), noop, 0, loc, images, renderer),
	}

	report, err := applyContent(ctx, svc, plan)
	if err != nil {
		return err
	}
	log.Printf("seed content: %d created, %d already present", report.Created, report.Skipped)
	return nil
}

func adminUsersFromEnv() []seedUser {
	return []seedUser{
		{
			Username:    envOrDefault("ADMIN_USER", "admin"),
			Email:       envOrDefault("ADMIN_EMAIL", ""),
			PasswordEnv: "ADMIN_PASSWORD",
		},
		{
			Username:    envOrDefault("ADMIN_USER_2", "admin2"),
			Email:       envOrDefault("ADMIN_EMAIL_2", ""),
			PasswordEnv: "ADMIN_PASSWORD_2",
		},
	}
}

func seedAdmins(ctx context.Context, users adminUpserter, admins []seedUser, loc *time.Location) error {
	for _, admin := range admins {
		password := os.Getenv(admin.PasswordEnv)
		if admin.Username == "" || password == "" {
			log.Printf("seed admin: %s missing, skipping (%s)", admin.Username, admin.PasswordEnv)
			continue
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("seed admin %s: %w", admin.Username, err)
		}
		now := time.Now().In(loc)
		user := models.User{
			ID:           primitive.NewObjectID().Hex(),
			Username:     admin.Username,
			Email:        admin.Email,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("seed admin %s: %w", admin.Username, err)
		}
		log.Printf("seed admin: %s ok", admin.Username)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
