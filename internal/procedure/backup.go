package procedure

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Backup dumps a database once and uploads the compressed dump to every
// destination.
type Backup struct {
	registries Registries
	opts       Options
}

// NewBackup creates a backup procedure.
func NewBackup(registries Registries, opts Options) *Backup {
	return &Backup{registries: registries, opts: opts.withDefaults()}
}

// Run backs up databaseName to destinations using the named compressor.
func (b *Backup) Run(ctx context.Context, databaseName string, destinations []Destination, compressorName string) (err error) {
	fail := func(message string, cause error) error {
		return &Error{Op: "backup", Database: databaseName, Message: message, Cause: cause}
	}

	if len(destinations) == 0 {
		return fail("no backup destinations given", nil)
	}

	db, err := b.registries.Databases.Get(databaseName)
	if err != nil {
		return fail("unknown database", err)
	}
	compressor, err := b.registries.Compressors.Get(compressorName)
	if err != nil {
		return fail("unknown compression", err)
	}
	for _, d := range destinations {
		if _, err := b.registries.Storage.Get(d.Provider); err != nil {
			return fail("unknown storage provider", err)
		}
	}

	done := b.opts.Logger.LogProcedureStart("backup", map[string]interface{}{
		"database":     databaseName,
		"destinations": len(destinations),
		"compression":  compressorName,
	})
	defer func() { done(err) }()

	if err := db.Ping(ctx); err != nil {
		return fail("database is not reachable", err)
	}

	tmp, err := os.CreateTemp(b.opts.TempDir, "database-manager-*.sql"+compressor.Extension())
	if err != nil {
		return fail("failed to create working file", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w, err := compressor.Compress(tmp)
	if err != nil {
		return fail("failed to start compression", err)
	}
	if err := db.Dump(ctx, w); err != nil {
		w.Close()
		return fail("failed to dump database", err)
	}
	if err := w.Close(); err != nil {
		return fail("failed to finish compression", err)
	}

	for _, d := range destinations {
		fs, _ := b.registries.Storage.Get(d.Provider)
		target := d.Path + compressor.Extension()

		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return fail("failed to rewind working file", err)
		}
		if err := fs.Write(ctx, target, tmp); err != nil {
			return fail(fmt.Sprintf("failed to upload to %s:%s", d.Provider, target), err)
		}
		b.opts.Logger.WithFields(map[string]interface{}{
			"provider": d.Provider,
			"path":     target,
		}).Debug("Backup uploaded")
	}

	return nil
}
