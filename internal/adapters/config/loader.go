// Package config provides the configuration loader for pregate.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader over YAML files on disk.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Load locates and reads the configuration tree for cwd. Item-level problems
// are collected across all fragments so one run reports everything.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	root, err := l.findConfigRoot(cwd)
	if err != nil {
		return nil, err
	}

	files, err := l.Discover(root)
	if err != nil {
		return nil, err
	}

	cfg := domain.NewConfig(root)
	cfg.Files = files

	var errs error
	for _, path := range files {
		errs = errors.Join(errs, l.loadFragment(cfg, path))
	}
	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

// findConfigRoot walks up from cwd until it finds a directory holding
// .zuul.yaml or a zuul.d directory.
func (l *Loader) findConfigRoot(cwd string) (string, error) {
	currentDir := cwd
	for {
		if _, err := os.Stat(filepath.Join(currentDir, domain.ConfigFileName)); err == nil {
			return currentDir, nil
		}
		if info, err := os.Stat(filepath.Join(currentDir, domain.ConfigDirName)); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// Discover returns the fragment paths under root in load order: .zuul.yaml
// first if present, then zuul.d entries. os.ReadDir already sorts by name.
func (l *Loader) Discover(root string) ([]string, error) {
	var files []string

	single := filepath.Join(root, domain.ConfigFileName)
	if _, err := os.Stat(single); err == nil {
		files = append(files, single)
	}

	dir := filepath.Join(root, domain.ConfigDirName)
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			l.Logger.Warn(fmt.Sprintf("skipping %s in %s: not a YAML file", entry.Name(), domain.ConfigDirName))
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	if len(files) == 0 {
		return nil, zerr.With(domain.ErrConfigNotFound, "root", root)
	}
	return files, nil
}

// loadFragment parses one configuration file into cfg. A fragment is a YAML
// sequence of single-key mappings, each naming the directive it defines.
func (l *Loader) loadFragment(cfg *domain.Config, path string) error {
	file := relPath(cfg.Root, path)

	// #nosec G304 -- path comes from Discover under the config root
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", file)
	}

	var items []yaml.Node
	if err := yaml.Unmarshal(data, &items); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", file)
	}

	var errs error
	for i := range items {
		errs = errors.Join(errs, l.loadItem(cfg, file, &items[i]))
	}
	return errs
}

func (l *Loader) loadItem(cfg *domain.Config, file string, item *yaml.Node) error {
	if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
		err := zerr.With(domain.ErrUnknownDirective, "file", file)
		return zerr.With(err, "line", item.Line)
	}

	key := item.Content[0].Value
	body := item.Content[1]

	switch key {
	case "job":
		return l.loadJob(cfg, file, body)
	case "nodeset":
		return l.loadNodeset(cfg, file, body)
	case "project":
		return l.loadProject(cfg, file, body)
	default:
		err := zerr.With(domain.ErrUnknownDirective, "directive", key)
		err = zerr.With(err, "file", file)
		return zerr.With(err, "line", item.Content[0].Line)
	}
}

func (l *Loader) loadJob(cfg *domain.Config, file string, node *yaml.Node) error {
	var dto JobDTO
	if err := node.Decode(&dto); err != nil {
		return wrapParseError(err, file, node.Line)
	}
	if !validNameRegex.MatchString(dto.Name) {
		err := zerr.With(domain.ErrInvalidJobName, "job", dto.Name)
		return zerr.With(err, "file", file)
	}

	job := &domain.Job{
		Name:        domain.NewInternedString(dto.Name),
		Description: strings.TrimSpace(dto.Description),
		Abstract:    dto.Abstract,
		Timeout:     dto.Timeout,
		PreRun:      dto.PreRun,
		Run:         dto.Run,
		PostRun:     dto.PostRun,
		Vars:        dto.Vars,
		SourceFile:  file,
	}
	if dto.Parent != "" {
		job.Parent = domain.NewInternedString(dto.Parent)
	}
	if dto.Nodeset != "" {
		job.Nodeset = domain.NewInternedString(dto.Nodeset)
	}
	return cfg.AddJob(job)
}

func (l *Loader) loadNodeset(cfg *domain.Config, file string, node *yaml.Node) error {
	var dto NodesetDTO
	if err := node.Decode(&dto); err != nil {
		return wrapParseError(err, file, node.Line)
	}
	if !validNameRegex.MatchString(dto.Name) {
		err := zerr.With(domain.ErrInvalidNodesetName, "nodeset", dto.Name)
		return zerr.With(err, "file", file)
	}

	ns := &domain.Nodeset{
		Name:       domain.NewInternedString(dto.Name),
		SourceFile: file,
	}
	for _, n := range dto.Nodes {
		for _, name := range n.Name {
			ns.Nodes = append(ns.Nodes, domain.NodesetNode{Name: name, Label: n.Label})
		}
	}
	return cfg.AddNodeset(ns)
}

// loadProject walks the mapping by hand: every key other than name is a
// pipeline name, kept as written so validation can reject unknown ones with
// their source position.
func (l *Loader) loadProject(cfg *domain.Config, file string, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return wrapParseError(errors.New("project body must be a mapping"), file, node.Line)
	}

	p := &domain.Project{
		Pipelines:  make(map[domain.PipelineName][]domain.InternedString),
		SourceFile: file,
	}

	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		body := node.Content[i+1]

		if key == "name" {
			if err := body.Decode(&p.Name); err != nil {
				return wrapParseError(err, file, body.Line)
			}
			continue
		}

		if _, dup := p.Pipelines[domain.PipelineName(key)]; dup {
			return wrapParseError(errors.New("pipeline listed twice: "+key), file, node.Content[i].Line)
		}

		var dto PipelineDTO
		if err := body.Decode(&dto); err != nil {
			return wrapParseError(err, file, body.Line)
		}
		jobs := make([]domain.InternedString, 0, len(dto.Jobs))
		for _, ref := range dto.Jobs {
			jobs = append(jobs, domain.NewInternedString(ref.Name))
		}
		p.Pipelines[domain.PipelineName(key)] = jobs
	}

	cfg.AddProject(p)
	return nil
}

func wrapParseError(err error, file string, line int) error {
	wrapped := zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	wrapped = zerr.With(wrapped, "file", file)
	return zerr.With(wrapped, "line", line)
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
