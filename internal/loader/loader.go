// Package loader turns configuration files into config trees. It is the
// parser side of the decoding engine: files are read and translated into
// []oconfig.Item, which the decode package then maps onto typed records.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/fsutil"
	"github.com/specialistvlad/oconfig/internal/oconfig"
)

var (
	hclExtensions  = []string{".hcl", ".conf"}
	yamlExtensions = []string{".yaml", ".yml"}
)

// Loader reads HCL and YAML configuration files.
type Loader struct {
	environ func() []string
}

// New creates a loader whose HCL expressions see the process environment
// as env.NAME.
func New() *Loader {
	return &Loader{environ: os.Environ}
}

// Load reads every configuration file found under paths, in path order and
// then file name order, and concatenates their items. Directories are
// searched recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]oconfig.Item, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Config loader started.", "path_count", len(paths))

	files, err := l.findAll(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found in %v", paths)
	}
	logger.Debug("Discovered config files.", "count", len(files))

	var items []oconfig.Item
	for _, file := range files {
		fileItems, err := l.LoadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		items = append(items, fileItems...)
	}

	logger.Debug("Config loading complete.", "files", len(files), "items", len(items))
	return items, nil
}

// LoadFile parses a single file, choosing the format by extension.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]oconfig.Item, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	switch {
	case slices.Contains(hclExtensions, ext):
		return l.ParseHCL(ctx, src, path)
	case slices.Contains(yamlExtensions, ext):
		return l.ParseYAML(ctx, src, path)
	}
	return nil, fmt.Errorf("unsupported config file type %q for %s", ext, path)
}

func (l *Loader) findAll(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	extensions := slices.Concat(hclExtensions, yamlExtensions)

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, extensions...)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if _, wasSeen := seen[f]; wasSeen {
				continue
			}
			seen[f] = struct{}{}
			all = append(all, f)
		}
	}
	return all, nil
}
