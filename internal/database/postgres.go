package database

import (
	"context"
	"fmt"
	"io"
	"strings"

	_ "github.com/lib/pq"

	apperrors "database-manager/internal/errors"
)

// Postgres dumps with pg_dump and restores with psql. The password is passed
// through PGPASSWORD.
type Postgres struct {
	conn     Connection
	executor Executor
	open     Opener
}

// NewPostgres creates a PostgreSQL backend.
func NewPostgres(conn Connection, executor Executor, open Opener) *Postgres {
	if conn.Port == "" {
		conn.Port = "5432"
	}
	return &Postgres{conn: conn, executor: executor, open: open}
}

func (p *Postgres) Dump(ctx context.Context, w io.Writer) error {
	args := append(p.connectionArgs(),
		"--clean",
		"--if-exists",
		"--no-owner",
		p.conn.Database,
	)

	err := p.executor.Run(ctx, Command{Name: "pg_dump", Args: args, Env: p.env(), Stdout: w})
	if err != nil {
		return apperrors.NewDatabaseError("pg_dump failed", err).WithContext("database", p.conn.Database)
	}
	return nil
}

func (p *Postgres) Restore(ctx context.Context, r io.Reader) error {
	args := append(p.connectionArgs(),
		"--quiet",
		"--set=ON_ERROR_STOP=1",
		"--dbname="+p.conn.Database,
	)

	err := p.executor.Run(ctx, Command{Name: "psql", Args: args, Env: p.env(), Stdin: r})
	if err != nil {
		return apperrors.NewDatabaseError("psql restore failed", err).WithContext("database", p.conn.Database)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := ping(ctx, p.open, "postgres", p.DSN()); err != nil {
		return apperrors.NewDatabaseError("failed to connect to PostgreSQL", err).WithContext("host", p.conn.Host)
	}
	return nil
}

// DSN returns the lib/pq keyword/value connection string.
func (p *Postgres) DSN() string {
	// lib/pq has no opportunistic modes.
	sslmode := p.conn.SSLMode
	switch sslmode {
	case "", "prefer", "allow":
		sslmode = "disable"
	}
	pairs := []string{
		"host=" + quoteValue(p.conn.Host),
		"port=" + quoteValue(p.conn.Port),
		"user=" + quoteValue(p.conn.User),
		"dbname=" + quoteValue(p.conn.Database),
		"sslmode=" + quoteValue(sslmode),
		"connect_timeout=10",
	}
	if p.conn.Pass != "" {
		pairs = append(pairs, "password="+quoteValue(p.conn.Pass))
	}
	return strings.Join(pairs, " ")
}

func (p *Postgres) connectionArgs() []string {
	return []string{
		"--host=" + p.conn.Host,
		"--port=" + p.conn.Port,
		"--username=" + p.conn.User,
		"--no-password",
	}
}

func (p *Postgres) env() []string {
	var env []string
	if p.conn.Pass != "" {
		env = append(env, "PGPASSWORD="+p.conn.Pass)
	}
	if p.conn.SSLMode != "" {
		env = append(env, "PGSSLMODE="+p.conn.SSLMode)
	}
	return env
}

// quoteValue quotes a keyword/value connection string value.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return fmt.Sprintf("'%s'", v)
}
