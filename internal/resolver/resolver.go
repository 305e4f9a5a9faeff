// Package resolver fills the arguments a command needs, taking flag values
// as given and prompting for the rest in declaration order.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"database-manager/internal/database"
	apperrors "database-manager/internal/errors"
	"database-manager/internal/logging"
	"database-manager/internal/prompt"
	"database-manager/internal/provider"
	"database-manager/internal/storage"
)

// Argument names shared with the CLI flags.
const (
	ArgDatabase   = "database"
	ArgProvider   = "provider"
	ArgSource     = "source"
	ArgPath       = "path"
	ArgSourcePath = "sourcePath"
)

// Args holds resolved argument values by name. An empty value is unset.
type Args map[string]string

// UnresolvedDependencyError is returned when an argument is resolved before
// the argument it depends on.
type UnresolvedDependencyError struct {
	Argument  string
	DependsOn string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("cannot resolve '%s' before '%s' is set", e.Argument, e.DependsOn)
}

// MissingArgumentError is returned for an unset argument when prompting is
// disabled.
type MissingArgumentError struct {
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument --%s", e.Argument)
}

// Output is where the resolver writes the information shown around prompts.
type Output interface {
	Info(message string)
	Comment(text string) string
	Line()
	Table(headers []string, rows [][]string)
}

// Options configure a Resolver.
type Options struct {
	// Interactive enables prompting for unset arguments.
	Interactive bool
	Logger      *logging.Logger
}

// Resolver resolves command arguments against the registries.
type Resolver struct {
	storage     *provider.Registry[storage.Filesystem]
	databases   *provider.Registry[database.Database]
	prompter    prompt.Prompter
	out         Output
	logger      *logging.Logger
	interactive bool
	prompted    map[string]bool
}

// New creates a resolver.
func New(storageRegistry *provider.Registry[storage.Filesystem], databaseRegistry *provider.Registry[database.Database], prompter prompt.Prompter, out Output, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		storage:     storageRegistry,
		databases:   databaseRegistry,
		prompter:    prompter,
		out:         out,
		logger:      logger,
		interactive: opts.Interactive,
		prompted:    make(map[string]bool),
	}
}

// Resolve fills every argument in names that args does not already hold.
// It returns false without an error when a listing turned up nothing to
// choose from; the remaining arguments are left unset.
func (r *Resolver) Resolve(ctx context.Context, args Args, names ...string) (bool, error) {
	for _, name := range names {
		if value := args[name]; value != "" {
			if !r.prompted[name] {
				r.logger.LogResolution(name, value, false)
			}
			continue
		}

		if !r.interactive {
			return false, &MissingArgumentError{Argument: name}
		}

		handler, err := r.handler(name)
		if err != nil {
			return false, err
		}

		ok, err := handler(ctx, args)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		r.prompted[name] = true
		r.logger.LogResolution(name, args[name], true)
	}
	return true, nil
}

// Prompted reports whether any argument was filled by prompting.
func (r *Resolver) Prompted() bool {
	return len(r.prompted) > 0
}

// Reask clears the values filled by prompting and resolves names again.
// Values supplied as flags are kept.
func (r *Resolver) Reask(ctx context.Context, args Args, names ...string) (bool, error) {
	cleared := make([]string, 0, len(r.prompted))
	for name := range r.prompted {
		delete(args, name)
		cleared = append(cleared, name)
	}
	sort.Strings(cleared)
	r.prompted = make(map[string]bool)
	r.logger.WithField("arguments", cleared).Debug("Arguments reset")

	r.out.Line()
	r.out.Info("Answers have been reset and re-asking questions.")
	r.out.Line()

	return r.Resolve(ctx, args, names...)
}

type handlerFunc func(ctx context.Context, args Args) (bool, error)

func (r *Resolver) handler(name string) (handlerFunc, error) {
	switch name {
	case ArgDatabase:
		return r.resolveDatabase, nil
	case ArgProvider:
		return r.resolveProvider, nil
	case ArgSource:
		return r.resolveSource, nil
	case ArgPath:
		return r.resolvePath, nil
	case ArgSourcePath:
		return r.resolveSourcePath, nil
	default:
		return nil, fmt.Errorf("unknown argument '%s'", name)
	}
}

func (r *Resolver) resolveDatabase(ctx context.Context, args Args) (bool, error) {
	return r.choose(ctx, args, ArgDatabase, r.databases.ListAvailable(), "Available databases", "Which database?")
}

func (r *Resolver) resolveProvider(ctx context.Context, args Args) (bool, error) {
	return r.choose(ctx, args, ArgProvider, r.storage.ListAvailable(), "Available providers", "Which provider?")
}

func (r *Resolver) resolveSource(ctx context.Context, args Args) (bool, error) {
	return r.choose(ctx, args, ArgSource, r.storage.ListAvailable(), "Available storage services", "From which storage service do you want to choose?")
}

func (r *Resolver) choose(ctx context.Context, args Args, name string, choices []string, title, question string) (bool, error) {
	if len(choices) == 0 {
		return false, apperrors.NewConfigurationError(fmt.Sprintf("no choices are configured for '%s'", name), nil)
	}

	r.out.Info(fmt.Sprintf("%s: %s", title, r.out.Comment(strings.Join(choices, ", "))))
	answer, err := r.prompter.Ask(ctx, prompt.Question{Text: question, Choices: choices})
	if err != nil {
		return false, err
	}
	r.out.Line()

	args[name] = answer
	return true, nil
}

func (r *Resolver) resolvePath(ctx context.Context, args Args) (bool, error) {
	providerName := args[ArgSource]
	if providerName == "" {
		providerName = args[ArgProvider]
	}
	if providerName == "" {
		return false, &UnresolvedDependencyError{Argument: ArgPath, DependsOn: ArgSource}
	}

	dir, err := r.askDirectory(ctx, providerName)
	if err != nil {
		return false, err
	}
	args[ArgPath] = dir
	return true, nil
}

func (r *Resolver) resolveSourcePath(ctx context.Context, args Args) (bool, error) {
	providerName := args[ArgProvider]
	if providerName == "" {
		return false, &UnresolvedDependencyError{Argument: ArgSourcePath, DependsOn: ArgProvider}
	}

	dir, err := r.askDirectory(ctx, providerName)
	if err != nil {
		return false, err
	}
	r.out.Line()

	fs, err := r.storage.Get(providerName)
	if err != nil {
		return false, err
	}
	files, err := ListFiles(ctx, fs, r.logger, providerName, dir)
	if err != nil {
		return false, err
	}

	if len(files) == 0 {
		r.out.Info("No backups were found at this path.")
		return false, nil
	}

	r.out.Info("Available database dumps:")
	r.out.Table(Headers, Rows(files))
	name, err := r.prompter.Ask(ctx, prompt.Question{
		Text:    "Which database dump do you want to restore?",
		Choices: Names(files),
	})
	if err != nil {
		return false, err
	}

	args[ArgSourcePath] = dir + "/" + name
	return true, nil
}

func (r *Resolver) askDirectory(ctx context.Context, providerName string) (string, error) {
	root, err := r.Root(providerName)
	if err != nil {
		return "", err
	}
	return r.prompter.Ask(ctx, prompt.Question{
		Text: "From which path do you want to select?",
		Hint: root,
	})
}

// Root returns the configured root of a storage provider, or "" when the
// provider has no root field.
func (r *Resolver) Root(providerName string) (string, error) {
	root, err := r.storage.GetString(providerName, "root")
	var fieldErr *provider.ConfigFieldNotFoundError
	if errors.As(err, &fieldErr) {
		return "", nil
	}
	return root, err
}
