package database

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	apperrors "database-manager/internal/errors"
)

// MySQL dumps with mysqldump and restores with the mysql client. The
// password is passed through MYSQL_PWD so it never shows up in the process
// list.
type MySQL struct {
	conn     Connection
	executor Executor
	open     Opener
}

// NewMySQL creates a MySQL backend.
func NewMySQL(conn Connection, executor Executor, open Opener) *MySQL {
	if conn.Port == "" {
		conn.Port = "3306"
	}
	return &MySQL{conn: conn, executor: executor, open: open}
}

func (m *MySQL) Dump(ctx context.Context, w io.Writer) error {
	args := append(m.connectionArgs(),
		"--routines",
		"--single-transaction",
		"--skip-lock-tables",
	)
	for _, table := range m.conn.IgnoreTables {
		args = append(args, "--ignore-table="+m.conn.Database+"."+table)
	}
	args = append(args, m.conn.Database)

	err := m.executor.Run(ctx, Command{Name: "mysqldump", Args: args, Env: m.env(), Stdout: w})
	if err != nil {
		return apperrors.NewDatabaseError("mysqldump failed", err).WithContext("database", m.conn.Database)
	}
	return nil
}

func (m *MySQL) Restore(ctx context.Context, r io.Reader) error {
	args := append(m.connectionArgs(), m.conn.Database)

	err := m.executor.Run(ctx, Command{Name: "mysql", Args: args, Env: m.env(), Stdin: r})
	if err != nil {
		return apperrors.NewDatabaseError("mysql restore failed", err).WithContext("database", m.conn.Database)
	}
	return nil
}

func (m *MySQL) Ping(ctx context.Context) error {
	if err := ping(ctx, m.open, "mysql", m.DSN()); err != nil {
		return apperrors.NewDatabaseError("failed to connect to MySQL", err).WithContext("host", m.conn.Host)
	}
	return nil
}

// DSN returns the go-sql-driver data source name.
func (m *MySQL) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = m.conn.User
	cfg.Passwd = m.conn.Pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(m.conn.Host, m.conn.Port)
	cfg.DBName = m.conn.Database
	cfg.Timeout = 10 * time.Second
	return cfg.FormatDSN()
}

func (m *MySQL) connectionArgs() []string {
	return []string{
		"--host=" + m.conn.Host,
		"--port=" + m.conn.Port,
		"--user=" + m.conn.User,
	}
}

func (m *MySQL) env() []string {
	if m.conn.Pass == "" {
		return nil
	}
	return []string{"MYSQL_PWD=" + m.conn.Pass}
}
