package procedure

import (
	"context"
)

// Restore downloads a backup, decompresses it and loads it into a database.
type Restore struct {
	registries Registries
	opts       Options
}

// NewRestore creates a restore procedure.
func NewRestore(registries Registries, opts Options) *Restore {
	return &Restore{registries: registries, opts: opts.withDefaults()}
}

// Run restores sourcePath from providerName into databaseName. The source is
// always decompressed with the named compressor.
func (r *Restore) Run(ctx context.Context, providerName, sourcePath, databaseName, compressorName string) (err error) {
	fail := func(message string, cause error) error {
		return &Error{Op: "restore", Database: databaseName, Message: message, Cause: cause}
	}

	fs, err := r.registries.Storage.Get(providerName)
	if err != nil {
		return fail("unknown storage provider", err)
	}
	db, err := r.registries.Databases.Get(databaseName)
	if err != nil {
		return fail("unknown database", err)
	}
	compressor, err := r.registries.Compressors.Get(compressorName)
	if err != nil {
		return fail("unknown compression", err)
	}

	done := r.opts.Logger.LogProcedureStart("restore", map[string]interface{}{
		"database":    databaseName,
		"provider":    providerName,
		"source":      sourcePath,
		"compression": compressorName,
	})
	defer func() { done(err) }()

	if err := db.Ping(ctx); err != nil {
		return fail("database is not reachable", err)
	}

	src, err := fs.Read(ctx, sourcePath)
	if err != nil {
		return fail("failed to download backup", err)
	}
	defer src.Close()

	plain, err := compressor.Decompress(src)
	if err != nil {
		return fail("failed to decompress backup", err)
	}
	defer plain.Close()

	if err := db.Restore(ctx, plain); err != nil {
		return fail("failed to restore database", err)
	}
	return nil
}
