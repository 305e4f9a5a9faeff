package manager

import (
	"context"

	"database-manager/internal/compression"
	"database-manager/internal/config"
	"database-manager/internal/database"
	"database-manager/internal/provider"
	"database-manager/internal/resolver"
	"database-manager/internal/storage"
)

// Backup dumps a database to both backup destinations on a provider.
func (m *Manager) Backup(ctx context.Context, args resolver.Args) int {
	r := m.newResolver()
	if _, err := r.Resolve(ctx, args, resolver.ArgDatabase, resolver.ArgProvider); err != nil {
		return m.fail(err)
	}

	databaseName, providerName := args[resolver.ArgDatabase], args[resolver.ArgProvider]
	destinations := BackupDestinations(databaseName, providerName, m.now())

	m.out.Info("Backing up ...")
	if err := m.backup.Run(ctx, databaseName, destinations, Compression); err != nil {
		return m.fail(err)
	}

	m.out.Success(m.comment("Successfully backed up! Database: `%s`, Provider: `%s`!", databaseName, providerName))

	ext := ""
	if c, err := m.registries.Compressors.Get(Compression); err == nil {
		ext = c.Extension()
	}
	rows := make([][]string, len(destinations))
	for i, d := range destinations {
		rows[i] = []string{d.Provider, d.Path + ext}
	}
	m.out.Table([]string{"Provider", "Path"}, rows)
	return ExitOK
}

// Restore loads a backup chosen from a provider into a database. Finding
// nothing to restore is not a failure.
func (m *Manager) Restore(ctx context.Context, args resolver.Args) int {
	r := m.newResolver()
	complete, err := r.Resolve(ctx, args, resolver.ArgDatabase, resolver.ArgProvider, resolver.ArgSourcePath)
	if err != nil {
		return m.fail(err)
	}
	if !complete {
		return ExitOK
	}

	databaseName := args[resolver.ArgDatabase]
	providerName := args[resolver.ArgProvider]
	sourcePath := args[resolver.ArgSourcePath]

	m.out.Info("Restoring backup ...")
	if err := m.restore.Run(ctx, providerName, sourcePath, databaseName, Compression); err != nil {
		return m.fail(err)
	}

	m.out.Success(m.comment("Successfully restored! %s from %s to database %s.", sourcePath, providerName, databaseName))
	return ExitOK
}

// List prints the backups stored in a directory of a provider. When any
// argument was prompted for, the choice is confirmed first and a negative
// answer asks again.
func (m *Manager) List(ctx context.Context, args resolver.Args) int {
	if args[resolver.ArgSource] == "" && args[resolver.ArgProvider] != "" {
		args[resolver.ArgSource] = args[resolver.ArgProvider]
	}
	delete(args, resolver.ArgProvider)

	r := m.newResolver()
	if _, err := r.Resolve(ctx, args, resolver.ArgSource, resolver.ArgPath); err != nil {
		return m.fail(err)
	}

	for r.Prompted() {
		confirmed, err := m.confirmListing(ctx, r, args)
		if err != nil {
			return m.fail(err)
		}
		if confirmed {
			break
		}
		if _, err := r.Reask(ctx, args, resolver.ArgSource, resolver.ArgPath); err != nil {
			return m.fail(err)
		}
	}

	source, dir := args[resolver.ArgSource], args[resolver.ArgPath]
	fs, err := m.registries.Storage.Get(source)
	if err != nil {
		return m.fail(err)
	}
	files, err := resolver.ListFiles(ctx, fs, m.logger, source, dir)
	if err != nil {
		return m.fail(err)
	}

	if len(files) == 0 {
		m.out.Info("No backups were found at this path.")
		return ExitOK
	}
	m.out.Table(resolver.Headers, resolver.Rows(files))
	return ExitOK
}

func (m *Manager) confirmListing(ctx context.Context, r *resolver.Resolver, args resolver.Args) (bool, error) {
	source := args[resolver.ArgSource]
	root, err := r.Root(source)
	if err != nil {
		return false, err
	}

	m.out.Info("Just to be sure...")
	m.out.Info(m.comment("Do you want to list files from %s on %s?", root+args[resolver.ArgPath], source))
	m.out.Line()
	return m.prompter.Confirm(ctx, "Are these correct?", true)
}

// Providers prints every registered provider by capability.
func (m *Manager) Providers() int {
	var rows [][]string
	add := func(capability provider.Capability, name string, cfg config.Tree) {
		providerType := cfg.String("type")
		if providerType == "" {
			providerType = name
		}
		rows = append(rows, []string{string(capability), name, providerType})
	}

	_ = m.registries.Storage.Each(func(d provider.Descriptor[storage.Filesystem]) error {
		add(d.Capability, d.Name, d.Config)
		return nil
	})
	_ = m.registries.Databases.Each(func(d provider.Descriptor[database.Database]) error {
		add(d.Capability, d.Name, d.Config)
		return nil
	})
	_ = m.registries.Compressors.Each(func(d provider.Descriptor[compression.Compressor]) error {
		add(d.Capability, d.Name, d.Config)
		return nil
	})

	m.out.Table([]string{"Capability", "Name", "Type"}, rows)
	return ExitOK
}
