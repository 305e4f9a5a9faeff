package database

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
	"database-manager/internal/logging"
)

// fakeExecutor records commands and plays back canned output.
type fakeExecutor struct {
	commands []Command
	stdin    []string
	output   string
	err      error
}

func (f *fakeExecutor) Run(ctx context.Context, cmd Command) error {
	f.commands = append(f.commands, cmd)
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		f.stdin = append(f.stdin, string(data))
	}
	if cmd.Stdout != nil && f.output != "" {
		io.WriteString(cmd.Stdout, f.output)
	}
	return f.err
}

func mockOpener(t *testing.T, setup func(mock sqlmock.Sqlmock)) (Opener, *[]string) {
	t.Helper()
	var dsns []string
	return func(driverName, dsn string) (*sql.DB, error) {
		dsns = append(dsns, driverName+"|"+dsn)
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		setup(mock)
		t.Cleanup(func() {
			assert.NoError(t, mock.ExpectationsWereMet())
		})
		return db, nil
	}, &dsns
}

func mysqlConnection() Connection {
	return Connection{
		Type:         TypeMySQL,
		Host:         "db.internal",
		User:         "root",
		Pass:         "secret",
		Database:     "app",
		IgnoreTables: []string{"sessions", "cache"},
	}
}

func TestMySQL_Dump(t *testing.T) {
	executor := &fakeExecutor{output: "CREATE TABLE users;"}
	db := NewMySQL(mysqlConnection(), executor, nil)

	var buf bytes.Buffer
	require.NoError(t, db.Dump(context.Background(), &buf))

	assert.Equal(t, "CREATE TABLE users;", buf.String())
	require.Len(t, executor.commands, 1)
	cmd := executor.commands[0]
	assert.Equal(t, "mysqldump", cmd.Name)
	assert.Equal(t, []string{
		"--host=db.internal",
		"--port=3306",
		"--user=root",
		"--routines",
		"--single-transaction",
		"--skip-lock-tables",
		"--ignore-table=app.sessions",
		"--ignore-table=app.cache",
		"app",
	}, cmd.Args)
	assert.Equal(t, []string{"MYSQL_PWD=secret"}, cmd.Env)
	assert.NotContains(t, cmd.String(), "secret")
}

func TestMySQL_Restore(t *testing.T) {
	executor := &fakeExecutor{}
	db := NewMySQL(mysqlConnection(), executor, nil)

	require.NoError(t, db.Restore(context.Background(), strings.NewReader("INSERT INTO users VALUES (1);")))

	require.Len(t, executor.commands, 1)
	assert.Equal(t, "mysql", executor.commands[0].Name)
	assert.Equal(t, []string{"--host=db.internal", "--port=3306", "--user=root", "app"}, executor.commands[0].Args)
	assert.Equal(t, []string{"INSERT INTO users VALUES (1);"}, executor.stdin)
}

func TestMySQL_DumpFailure(t *testing.T) {
	executor := &fakeExecutor{err: errors.New("exit status 2")}
	db := NewMySQL(mysqlConnection(), executor, nil)

	err := db.Dump(context.Background(), io.Discard)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDatabase, apperrors.GetErrorType(err))
	assert.Contains(t, err.Error(), "mysqldump failed")
}

func TestMySQL_Ping(t *testing.T) {
	opener, dsns := mockOpener(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectPing()
		mock.ExpectClose()
	})
	db := NewMySQL(mysqlConnection(), &fakeExecutor{}, opener)

	require.NoError(t, db.Ping(context.Background()))
	require.Len(t, *dsns, 1)
	assert.True(t, strings.HasPrefix((*dsns)[0], "mysql|root:secret@tcp(db.internal:3306)/app"), (*dsns)[0])
}

func TestMySQL_PingFailure(t *testing.T) {
	opener, _ := mockOpener(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()
	})
	db := NewMySQL(mysqlConnection(), &fakeExecutor{}, opener)

	err := db.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to MySQL")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPostgres_DumpAndRestore(t *testing.T) {
	executor := &fakeExecutor{output: "-- PostgreSQL database dump"}
	db := NewPostgres(Connection{
		Type:     TypePostgres,
		Host:     "localhost",
		User:     "postgres",
		Pass:     "pw",
		Database: "app",
		SSLMode:  "require",
	}, executor, nil)

	var buf bytes.Buffer
	require.NoError(t, db.Dump(context.Background(), &buf))
	require.NoError(t, db.Restore(context.Background(), strings.NewReader(buf.String())))

	require.Len(t, executor.commands, 2)
	dump, restore := executor.commands[0], executor.commands[1]

	assert.Equal(t, "pg_dump", dump.Name)
	assert.Equal(t, []string{
		"--host=localhost",
		"--port=5432",
		"--username=postgres",
		"--no-password",
		"--clean",
		"--if-exists",
		"--no-owner",
		"app",
	}, dump.Args)
	assert.Equal(t, []string{"PGPASSWORD=pw", "PGSSLMODE=require"}, dump.Env)

	assert.Equal(t, "psql", restore.Name)
	assert.Contains(t, restore.Args, "--dbname=app")
	assert.Contains(t, restore.Args, "--set=ON_ERROR_STOP=1")
	assert.Equal(t, []string{"-- PostgreSQL database dump"}, executor.stdin)
}

func TestPostgres_DSN(t *testing.T) {
	tests := []struct {
		name string
		conn Connection
		want string
	}{
		{
			name: "defaults",
			conn: Connection{Host: "localhost", User: "postgres", Database: "app"},
			want: "host=localhost port=5432 user=postgres dbname=app sslmode=disable connect_timeout=10",
		},
		{
			name: "quoted password and explicit sslmode",
			conn: Connection{Host: "db", Port: "6432", User: "u", Pass: "it's secret", Database: "app", SSLMode: "verify-full"},
			want: `host=db port=6432 user=u dbname=app sslmode=verify-full connect_timeout=10 password='it\'s secret'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPostgres(tt.conn, nil, nil).DSN())
		})
	}
}

func TestPostgres_Ping(t *testing.T) {
	opener, dsns := mockOpener(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectPing()
		mock.ExpectClose()
	})
	db := NewPostgres(Connection{Host: "localhost", User: "postgres", Database: "app"}, nil, opener)

	require.NoError(t, db.Ping(context.Background()))
	assert.True(t, strings.HasPrefix((*dsns)[0], "postgres|host=localhost"))
}

func TestFactory_Create(t *testing.T) {
	factory := &Factory{Executor: &fakeExecutor{}, Opener: sql.Open}

	tests := []struct {
		name     string
		section  config.Tree
		wantType interface{}
		wantErr  string
	}{
		{
			name:     "mysql",
			section:  config.Tree{"type": "mysql", "host": "h", "database": "app"},
			wantType: &MySQL{},
		},
		{
			name:     "pgsql",
			section:  config.Tree{"type": "pgsql", "host": "h", "database": "app"},
			wantType: &Postgres{},
		},
		{
			name:    "missing host",
			section: config.Tree{"type": "mysql", "database": "app"},
			wantErr: "invalid configuration for database 'missing host'",
		},
		{
			name:    "unsupported type",
			section: config.Tree{"type": "sqlite", "host": "h", "database": "app"},
			wantErr: "unsupported database type 'sqlite'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := factory.Create(tt.name, tt.section)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, db)
		})
	}
}

func TestNewRegistry(t *testing.T) {
	cfg, err := config.Load(config.Tree{
		"databases": config.Tree{
			"reporting":  config.Tree{"driver": "pgsql", "host": "pg", "database": "reports"},
			"production": config.Tree{"driver": "mysql", "host": "my", "database": "app"},
			"legacy":     config.Tree{"driver": "sqlite", "database": "db.sqlite"},
		},
	})
	require.NoError(t, err)

	registry, err := NewRegistry(cfg, &Factory{Executor: &fakeExecutor{}}, logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"production", "reporting"}, registry.ListAvailable())
	port, err := registry.GetString("reporting", "port")
	require.NoError(t, err)
	assert.Equal(t, "5432", port)
}

func TestConnectionFrom(t *testing.T) {
	conn := ConnectionFrom(config.Tree{
		"type":         "mysql",
		"host":         "h",
		"port":         "3307",
		"user":         "u",
		"pass":         "p",
		"database":     "d",
		"ignoreTables": []string{"t1"},
	})

	assert.Equal(t, Connection{
		Type:         TypeMySQL,
		Host:         "h",
		Port:         "3307",
		User:         "u",
		Pass:         "p",
		Database:     "d",
		IgnoreTables: []string{"t1"},
	}, conn)
}
