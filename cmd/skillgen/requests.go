package main

import (
	"context"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillgen/pkg/generator"
	"github.com/jingkaihe/skillgen/pkg/request"
	"github.com/jingkaihe/skillgen/pkg/skills"
	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// loadRequests reads requests from the files named in args, "-" meaning
// stdin, or from the request flags. Files and flags cannot be combined.
func loadRequests(cmd *cobra.Command, args []string) ([]skill.RawRequest, error) {
	hasFlags := request.HasRequestFlags(cmd.Flags())
	switch {
	case hasFlags && len(args) > 0:
		return nil, usageError(cmd, "request flags cannot be combined with request files")
	case hasFlags:
		raw, err := request.FromFlags(cmd.Flags())
		if err != nil {
			return nil, err
		}
		return []skill.RawRequest{raw}, nil
	case len(args) == 0:
		return nil, usageError(cmd, "a request file or request flags are required")
	}

	var raws []skill.RawRequest
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return nil, errors.Wrap(err, "failed to read request from stdin")
			}
			loaded, err := request.Parse(data, request.FormatYAML)
			if err != nil {
				return nil, errors.Wrap(err, "failed to load request from stdin")
			}
			raws = append(raws, loaded...)
			continue
		}

		loaded, err := request.LoadFile(arg)
		if err != nil {
			return nil, err
		}
		raws = append(raws, loaded...)
	}
	return raws, nil
}

// newGenerator builds a generator from the viper configuration. Skills that
// already exist under the output directory are reserved when checkExisting
// is set.
func newGenerator(ctx context.Context, checkExisting bool) (*generator.Generator, generator.Config, error) {
	config, err := generator.GetConfigFromViper()
	if err != nil {
		return nil, generator.Config{}, err
	}

	opts := config.Options()
	if checkExisting {
		opts = append(opts, generator.WithExistingSkills(skills.ExistingNames(ctx, config.OutputDir)...))
	}
	return generator.New(opts...), config, nil
}

// generateAll runs every request through gen. Manifests of failed requests
// are dropped; their errors are returned separately.
func generateAll(ctx context.Context, gen *generator.Generator, raws []skill.RawRequest, outputDir string) ([]*skill.Manifest, []error) {
	if len(raws) == 1 {
		m, err := gen.Generate(ctx, raws[0], outputDir)
		if err != nil {
			return nil, []error{err}
		}
		return []*skill.Manifest{m}, nil
	}

	results, err := gen.Batch(ctx, raws, outputDir)

	var failures []error
	if err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			failures = merr.Errors
		} else {
			failures = []error{err}
		}
	}

	manifests := make([]*skill.Manifest, 0, len(results))
	for _, m := range results {
		if m != nil {
			manifests = append(manifests, m)
		}
	}
	return manifests, failures
}
