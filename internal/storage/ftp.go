package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
)

// FTPConfig holds the settings of an FTP server.
type FTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Root     string
	SSL      bool
	Timeout  time.Duration
}

func ftpConfigFrom(section config.Tree) FTPConfig {
	return FTPConfig{
		Host:     section.String("host"),
		Port:     section.Int("port", 21),
		Username: section.String("username"),
		Password: section.String("password"),
		Root:     section.String("root"),
		SSL:      section.Bool("ssl", false),
		Timeout:  time.Duration(section.Int("timeout", 30)) * time.Second,
	}
}

// FTPFilesystem stores backups on an FTP server. It holds a single control
// connection opened on first use.
type FTPFilesystem struct {
	config FTPConfig
	conn   *ftp.ServerConn
}

// NewFTPFilesystem creates an FTPFilesystem.
func NewFTPFilesystem(cfg FTPConfig) (*FTPFilesystem, error) {
	if cfg.Host == "" {
		return nil, apperrors.NewConfigurationError("invalid FTP storage configuration", errors.New("host is required"))
	}
	return &FTPFilesystem{config: cfg}, nil
}

func (f *FTPFilesystem) connect(ctx context.Context) (*ftp.ServerConn, error) {
	if f.conn != nil {
		return f.conn, nil
	}

	addr := net.JoinHostPort(f.config.Host, strconv.Itoa(f.config.Port))
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(f.config.Timeout),
	}
	if f.config.SSL {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{ServerName: f.config.Host}))
	}

	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to connect to ftp://%s", addr), err)
	}
	if err := conn.Login(f.config.Username, f.config.Password); err != nil {
		conn.Quit()
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to log in to ftp://%s", addr), err)
	}

	f.conn = conn
	return conn, nil
}

func (f *FTPFilesystem) ListContents(ctx context.Context, dir string) ([]Entry, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}

	dir = cleanPath(dir)
	entries, err := conn.List(f.remotePath(dir))
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list %s", f.remotePath(dir)), err)
	}

	contents := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		rel := path.Join(dir, e.Name)
		if e.Type == ftp.EntryTypeFolder {
			contents = append(contents, newDirEntry(rel, e.Time))
			continue
		}
		contents = append(contents, newFileEntry(rel, int64(e.Size), e.Time))
	}
	return contents, nil
}

func (f *FTPFilesystem) Write(ctx context.Context, p string, r io.Reader) error {
	conn, err := f.connect(ctx)
	if err != nil {
		return err
	}

	remote := f.remotePath(p)
	f.ensureDir(conn, path.Dir(remote))
	if err := conn.Stor(remote, r); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to upload %s", remote), err)
	}
	return nil
}

func (f *FTPFilesystem) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}

	remote := f.remotePath(p)
	resp, err := conn.Retr(remote)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to download %s", remote), err)
	}
	return resp, nil
}

func (f *FTPFilesystem) Close() error {
	if f.conn == nil {
		return nil
	}
	err := f.conn.Quit()
	f.conn = nil
	return err
}

// ensureDir creates every missing directory of dir. Errors are ignored: the
// directories usually exist already and a real failure surfaces on Stor.
func (f *FTPFilesystem) ensureDir(conn *ftp.ServerConn, dir string) {
	current := ""
	if strings.HasPrefix(dir, "/") {
		current = "/"
	}
	for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
		if part == "" {
			continue
		}
		current = path.Join(current, part)
		_ = conn.MakeDir(current)
	}
}

func (f *FTPFilesystem) remotePath(p string) string {
	return joinRemote(f.config.Root, p)
}

// joinRemote joins a server side root with a relative path.
func joinRemote(root, p string) string {
	p = cleanPath(p)
	if root == "" {
		if p == "" {
			return "."
		}
		return p
	}
	return path.Join(root, p)
}
