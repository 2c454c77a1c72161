package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mvoronin/library-catalog/backend/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresStore handles user and book persistence against PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users and books tables if they don't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY,
			username   TEXT UNIQUE NOT NULL,
			email      TEXT UNIQUE NOT NULL,
			password   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id          BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			author      TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			year        TEXT NOT NULL DEFAULT '',
			genre       TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user. Unique-index violations surface as
// ErrDuplicateUsername / ErrDuplicateEmail so concurrent registrations that
// race past the pre-insert checks still fail with the right error.
func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		u.ID, u.Username, u.Email, u.Password,
	).Scan(&u.CreatedAt)
	if err != nil {
		if dup := translateUnique(err); dup != nil {
			return dup
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password, created_at FROM users WHERE username = $1`, username)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx,
		`SELECT id, username, email, password, created_at FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// translateUnique maps a unique-violation error onto the duplicate sentinel
// for the violated constraint, or nil if err is something else.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return ErrDuplicateUsername
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrDuplicateEmail
	}
	return nil
}

// InsertBook stores a new book and fills in its generated id.
func (s *PostgresStore) InsertBook(ctx context.Context, b *models.Book) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO books (title, author, description, year, genre)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		b.Title, b.Author, b.Description, b.Year, b.Genre,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, author, description, year, genre FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return scanBooks(rows)
}

// SearchBooks filters by case-insensitive substring on title and author.
// An empty argument leaves that field unfiltered.
func (s *PostgresStore) SearchBooks(ctx context.Context, title, author string) ([]models.Book, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, author, description, year, genre FROM books
		 WHERE ($1 = '' OR title  ILIKE '%' || $1 || '%')
		   AND ($2 = '' OR author ILIKE '%' || $2 || '%')
		 ORDER BY id`,
		title, author)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return scanBooks(rows)
}

func scanBooks(rows pgx.Rows) ([]models.Book, error) {
	defer rows.Close()
	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Year, &b.Genre); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}
	return books, nil
}

func (s *PostgresStore) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, author, description, year, genre FROM books WHERE id = $1`, id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Year, &b.Genre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

// UpdateBook replaces every mutable field of the row identified by b.ID.
func (s *PostgresStore) UpdateBook(ctx context.Context, b *models.Book) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE books SET title = $2, author = $3, description = $4, year = $5, genre = $6
		 WHERE id = $1`,
		b.ID, b.Title, b.Author, b.Description, b.Year, b.Genre)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteBook(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
