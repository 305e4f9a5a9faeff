package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
)

// SFTPConfig holds the settings of an SFTP server.
type SFTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	PrivateKey     string
	Passphrase     string
	KnownHostsFile string
	Root           string
	Timeout        time.Duration
}

func sftpConfigFrom(section config.Tree) SFTPConfig {
	return SFTPConfig{
		Host:           section.String("host"),
		Port:           section.Int("port", 22),
		Username:       section.String("username"),
		Password:       section.String("password"),
		PrivateKey:     section.String("private_key"),
		Passphrase:     section.String("passphrase"),
		KnownHostsFile: section.String("known_hosts"),
		Root:           section.String("root"),
		Timeout:        time.Duration(section.Int("timeout", 30)) * time.Second,
	}
}

// SFTPFilesystem stores backups on a server reachable over SSH.
type SFTPFilesystem struct {
	config SFTPConfig
	warnf  func(format string, args ...interface{})

	ssh    *ssh.Client
	client *sftp.Client
}

// NewSFTPFilesystem creates an SFTPFilesystem. warnf receives connection
// warnings and may be nil.
func NewSFTPFilesystem(cfg SFTPConfig, warnf func(format string, args ...interface{})) (*SFTPFilesystem, error) {
	if cfg.Host == "" {
		return nil, apperrors.NewConfigurationError("invalid SFTP storage configuration", errors.New("host is required"))
	}
	if cfg.Password == "" && cfg.PrivateKey == "" {
		return nil, apperrors.NewConfigurationError("invalid SFTP storage configuration", errors.New("password or private_key is required"))
	}
	if warnf == nil {
		warnf = func(string, ...interface{}) {}
	}
	return &SFTPFilesystem{config: cfg, warnf: warnf}, nil
}

func (s *SFTPFilesystem) clientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod
	if s.config.PrivateKey != "" {
		key, err := os.ReadFile(s.config.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		var signer ssh.Signer
		if s.config.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(s.config.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if s.config.Password != "" {
		auth = append(auth, ssh.Password(s.config.Password))
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if s.config.KnownHostsFile != "" {
		callback, err := knownhosts.New(s.config.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		hostKeyCallback = callback
	} else {
		s.warnf("SFTP host key of %s is not verified, set known_hosts to enable verification", s.config.Host)
	}

	return &ssh.ClientConfig{
		User:            s.config.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         s.config.Timeout,
	}, nil
}

func (s *SFTPFilesystem) connect(ctx context.Context) (*sftp.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clientConfig, err := s.clientConfig()
	if err != nil {
		return nil, apperrors.NewConfigurationError("invalid SFTP credentials", err)
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to connect to sftp://%s", addr), err)
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to start SFTP session on %s", addr), err)
	}

	s.ssh = sshClient
	s.client = client
	return client, nil
}

func (s *SFTPFilesystem) ListContents(ctx context.Context, dir string) ([]Entry, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	dir = cleanPath(dir)
	infos, err := client.ReadDir(s.remotePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list %s", s.remotePath(dir)), err)
	}

	contents := make([]Entry, 0, len(infos))
	for _, info := range infos {
		rel := path.Join(dir, info.Name())
		if info.IsDir() {
			contents = append(contents, newDirEntry(rel, info.ModTime()))
			continue
		}
		contents = append(contents, newFileEntry(rel, info.Size(), info.ModTime()))
	}
	return contents, nil
}

func (s *SFTPFilesystem) Write(ctx context.Context, p string, r io.Reader) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}

	remote := s.remotePath(p)
	if err := client.MkdirAll(path.Dir(remote)); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory for %s", remote), err)
	}

	f, err := client.Create(remote)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", remote), err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return apperrors.NewStorageError(fmt.Sprintf("failed to upload %s", remote), err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to upload %s", remote), err)
	}
	return nil
}

func (s *SFTPFilesystem) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	remote := s.remotePath(p)
	f, err := client.Open(remote)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", remote), err)
	}
	return f, nil
}

func (s *SFTPFilesystem) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	if sshErr := s.ssh.Close(); err == nil {
		err = sshErr
	}
	s.client, s.ssh = nil, nil
	return err
}

func (s *SFTPFilesystem) remotePath(p string) string {
	return joinRemote(s.config.Root, p)
}
