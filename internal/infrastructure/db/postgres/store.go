// Package postgres is the relational store behind every repository port. It
// runs on PostgreSQL in production and on SQLite in tests.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// Store implements the repository ports on GORM.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Connect opens a PostgreSQL connection and migrates the schema.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	s, err := Open(pgdriver.Open(cfg.DSN()), log)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Open wraps any GORM dialector. Driver errors are translated so duplicate
// keys surface as gorm.ErrDuplicatedKey on every backend.
func Open(dialector gorm.Dialector, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Migrate creates or updates every table.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.SetupJoinTable(&domain.Job{}, "Categories", &domain.JobCategory{}); err != nil {
		return fmt.Errorf("failed to set up job categories: %w", err)
	}
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Company{},
		&domain.JobSeeker{},
		&domain.Category{},
		&domain.Skill{},
		&domain.JobSeekerSkill{},
		&domain.Job{},
		&domain.JobApplication{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// WithTransaction runs fn against a Store bound to one transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func paginate(p ports.Pagination) func(*gorm.DB) *gorm.DB {
	n := p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(n.Offset()).Limit(n.PerPage)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike lowercases s and escapes LIKE wildcards.
func escapeLike(s string) string {
	return likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// likePattern builds a lowercase substring pattern.
func likePattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// containsAny matches the pattern against any of the columns, case-insensitively.
func containsAny(db *gorm.DB, pattern string, columns ...string) *gorm.DB {
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, "LOWER("+c+`) LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return db.Where("("+strings.Join(parts, " OR ")+")", args...)
}
