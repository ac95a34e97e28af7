package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported project format")
	ErrEmptyPath         = errors.New("application has no executable path")
	ErrTooLarge          = errors.New("project file too large")
	ErrOutsideDir        = errors.New("project path is outside the project directory")
)

// MaxProjectSize bounds the size of a project file
const MaxProjectSize = 1 << 20

// Format is a project file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads, decodes and validates a project file
func Load(path string) (*types.Project, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	p, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", path, err)
	}
	return p, nil
}

// Decode parses and validates a project in the given format
func Decode(data []byte, format Format) (*types.Project, error) {
	if len(data) > MaxProjectSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), MaxProjectSize)
	}

	var p types.Project

	var err error
	switch format {
	case FormatJSON:
		err = sonic.Unmarshal(data, &p)
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s project: %w", format, err)
	}

	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every application and fills derived fields
func Validate(p *types.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	for i := range p.Apps {
		app := &p.Apps[i]
		app.Path = strings.TrimSpace(app.Path)
		if app.Path == "" {
			return fmt.Errorf("app %d (%s): %w", i, app.Name, ErrEmptyPath)
		}
		if app.Name == "" {
			app.Name = strings.TrimSuffix(filepath.Base(app.Path), filepath.Ext(app.Path))
		}
	}

	if p.Name == "" {
		p.Name = p.ID
	}
	return nil
}

// Resolve maps path to a file inside dir. Relative paths are taken
// relative to dir; absolute paths must already lie inside it.
// The check is lexical, symlinks inside dir are followed when loading.
func Resolve(dir, path string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project dir %s: %w", dir, err)
	}

	target := filepath.FromSlash(path)
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDir, path)
	}
	return target, nil
}

// Discover lists project files under dir matching the doublestar pattern.
// Returned paths are joined with dir and sorted.
func Discover(dir, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to discover projects in %s: %w", dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	slices.Sort(paths)
	return paths, nil
}
