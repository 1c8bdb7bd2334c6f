package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arloliu/allot/types"
)

// ErrDSNRequired is returned by Open when neither a DSN nor DATABASE_URL is set.
var ErrDSNRequired = errors.New("postgres DSN or DATABASE_URL required")

// Postgres reads people and tasks from PostgreSQL tables.
//
// Availability and commitments are stored in their compact string forms,
// months as "MM/YYYY" text.
type Postgres struct {
	pool     *pgxpool.Pool
	owned    bool
	projects []string
}

var _ types.RecordSource = (*Postgres)(nil)

// PostgresOption configures a Postgres source.
type PostgresOption func(*Postgres)

// WithProjects restricts ListTasks to the given project IDs.
func WithProjects(projectIDs ...string) PostgresOption {
	return func(p *Postgres) {
		p.projects = append([]string(nil), projectIDs...)
	}
}

// NewPostgres creates a source on an existing pool. The caller owns the pool.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) *Postgres {
	p := &Postgres{pool: pool}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Open connects to PostgreSQL and ensures the schema exists.
//
// Parameters:
//   - ctx: Context for connecting and migrating
//   - dsn: Connection string; empty uses the DATABASE_URL environment variable
//   - opts: Optional source configuration
//
// Returns:
//   - *Postgres: Source owning its pool (release with Close)
//   - error: ErrDSNRequired, or a connection or schema error
func Open(ctx context.Context, dsn string, opts ...PostgresOption) (*Postgres, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := NewPostgres(pool, opts...)
	p.owned = true
	if err := p.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return p, nil
}

// Close releases the pool if Open created it.
func (p *Postgres) Close() {
	if p != nil && p.owned && p.pool != nil {
		p.pool.Close()
	}
}

// EnsureSchema creates the people and tasks tables if they don't exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS people (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL DEFAULT '',
			competency       TEXT NOT NULL,
			part_time_factor DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			availability     TEXT NOT NULL DEFAULT '',
			commitments      TEXT NOT NULL DEFAULT '',
			skills           TEXT[] NOT NULL DEFAULT '{}',
			time_budget      DOUBLE PRECISION NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("create people table: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id             TEXT PRIMARY KEY,
			project_id     TEXT NOT NULL,
			name           TEXT NOT NULL DEFAULT '',
			min_competency TEXT NOT NULL,
			skill          TEXT NOT NULL DEFAULT '',
			effort         DOUBLE PRECISION NOT NULL,
			start_month    TEXT NOT NULL,
			end_month      TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}

	_, err = p.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`)
	if err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}

	return nil
}

// ListPeople returns every person ordered by ID.
func (p *Postgres) ListPeople(ctx context.Context) ([]types.Person, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, competency, part_time_factor, availability, commitments, skills, time_budget
		FROM people ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	people := []types.Person{}
	for rows.Next() {
		var (
			person                    types.Person
			availability, commitments string
		)
		if err := rows.Scan(&person.ID, &person.Name, &person.Competency, &person.PartTimeFactor,
			&availability, &commitments, &person.Skills, &person.TimeBudget); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		person.Availability = types.ParseAvailability(availability)
		person.Commitments = types.ParseCommitments(commitments)
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}

	return people, nil
}

// ListTasks returns the tasks ordered by project and ID, restricted to the
// configured projects if any.
func (p *Postgres) ListTasks(ctx context.Context) ([]types.Task, error) {
	var (
		rows pgx.Rows
		err  error
	)
	const columns = `SELECT id, project_id, name, min_competency, skill, effort, start_month, end_month FROM tasks`
	if len(p.projects) > 0 {
		rows, err = p.pool.Query(ctx, columns+` WHERE project_id = ANY($1) ORDER BY project_id, id`, p.projects)
	} else {
		rows, err = p.pool.Query(ctx, columns+` ORDER BY project_id, id`)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []types.Task{}
	for rows.Next() {
		var (
			task       types.Task
			start, end string
		)
		if err := rows.Scan(&task.ID, &task.ProjectID, &task.Name, &task.MinCompetency, &task.Skill,
			&task.Effort, &start, &end); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if task.Start, err = types.ParseMonth(start); err != nil {
			return nil, fmt.Errorf("%w: task %s start: %w", types.ErrInvalidInput, task.ID, err)
		}
		if task.End, err = types.ParseMonth(end); err != nil {
			return nil, fmt.Errorf("%w: task %s end: %w", types.ErrInvalidInput, task.ID, err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// UpsertPeople inserts or replaces person records in one transaction.
func (p *Postgres) UpsertPeople(ctx context.Context, people []types.Person) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, person := range people {
			skills := person.Skills
			if skills == nil {
				skills = []string{}
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO people (id, name, competency, part_time_factor, availability, commitments, skills, time_budget)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					competency = EXCLUDED.competency,
					part_time_factor = EXCLUDED.part_time_factor,
					availability = EXCLUDED.availability,
					commitments = EXCLUDED.commitments,
					skills = EXCLUDED.skills,
					time_budget = EXCLUDED.time_budget`,
				person.ID, person.Name, person.Competency, person.PartTimeFactor,
				person.Availability.String(), types.FormatCommitments(person.Commitments), skills, person.TimeBudget)
			if err != nil {
				return fmt.Errorf("upsert person %s: %w", person.ID, err)
			}
		}

		return nil
	})
}

// UpsertTasks inserts or replaces task records in one transaction.
func (p *Postgres) UpsertTasks(ctx context.Context, tasks []types.Task) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, task := range tasks {
			_, err := tx.Exec(ctx, `
				INSERT INTO tasks (id, project_id, name, min_competency, skill, effort, start_month, end_month)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (id) DO UPDATE SET
					project_id = EXCLUDED.project_id,
					name = EXCLUDED.name,
					min_competency = EXCLUDED.min_competency,
					skill = EXCLUDED.skill,
					effort = EXCLUDED.effort,
					start_month = EXCLUDED.start_month,
					end_month = EXCLUDED.end_month`,
				task.ID, task.ProjectID, task.Name, task.MinCompetency, task.Skill,
				task.Effort, task.Start.String(), task.End.String())
			if err != nil {
				return fmt.Errorf("upsert task %s: %w", task.ID, err)
			}
		}

		return nil
	})
}
