package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pregate/pregate/internal/adapters/config"
	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports/mocks"
)

func TestLoader_Discover_Order(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()

	createFile(t, rootDir, domain.ConfigFileName, "")
	createFile(t, rootDir, filepath.Join(domain.ConfigDirName, "20-jobs.yaml"), "")
	createFile(t, rootDir, filepath.Join(domain.ConfigDirName, "10-nodesets.yaml"), "")
	createFile(t, rootDir, filepath.Join(domain.ConfigDirName, "30-project.yml"), "")

	files, err := loader.Discover(rootDir)
	require.NoError(t, err)

	expected := []string{
		filepath.Join(rootDir, domain.ConfigFileName),
		filepath.Join(rootDir, domain.ConfigDirName, "10-nodesets.yaml"),
		filepath.Join(rootDir, domain.ConfigDirName, "20-jobs.yaml"),
		filepath.Join(rootDir, domain.ConfigDirName, "30-project.yml"),
	}
	assert.Equal(t, expected, files)
}

func TestLoader_Discover_SkipsNonYAML(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)
	loader := config.NewLoader(mockLogger)

	rootDir := t.TempDir()
	createFile(t, rootDir, filepath.Join(domain.ConfigDirName, "jobs.yaml"), "")
	createFile(t, rootDir, filepath.Join(domain.ConfigDirName, "README.rst"), "docs")

	files, err := loader.Discover(rootDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(rootDir, domain.ConfigDirName, "jobs.yaml"), files[0])
}

func TestLoader_Load_WalksUpToConfigRoot(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()

	createFile(t, rootDir, domain.ConfigFileName, `
- job:
    name: rally-tox-py3
`)

	deep := filepath.Join(rootDir, "rally", "plugins")
	require.NoError(t, os.MkdirAll(deep, domain.DirPerm))

	cfg, err := loader.Load(deep)
	require.NoError(t, err)
	assert.Equal(t, rootDir, cfg.Root)
	assert.Equal(t, 1, cfg.JobCount())
}

func TestLoader_Load_ZuulDOnly(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()

	createFile(t, rootDir, filepath.Join(domain.ConfigDirName, "jobs.yaml"), `
- job:
    name: rally-tox-py3
`)

	cfg, err := loader.Load(rootDir)
	require.NoError(t, err)
	assert.Equal(t, rootDir, cfg.Root)

	job, ok := cfg.Job(domain.NewInternedString("rally-tox-py3"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(domain.ConfigDirName, "jobs.yaml"), job.SourceFile)
}

func TestLoader_Load_MergesFragmentsInOrder(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()

	createFile(t, rootDir, domain.ConfigFileName, `
- job:
    name: from-root
`)
	createFile(t, rootDir, filepath.Join(domain.ConfigDirName, "extra.yaml"), `
- job:
    name: from-zuul-d
`)

	cfg, err := loader.Load(rootDir)
	require.NoError(t, err)

	var order []string
	for job := range cfg.Jobs() {
		order = append(order, job.Name.String())
	}
	assert.Equal(t, []string{"from-root", "from-zuul-d"}, order)
}

func TestLoader_Load_NoConfig(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()

	cfg, err := loader.Load(rootDir)
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
	assert.Nil(t, cfg)
}

func TestLoader_Load_EmptyZuulD(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, domain.ConfigDirName), domain.DirPerm))

	// The directory marks the config root but holds nothing to load.
	cfg, err := loader.Load(rootDir)
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
	assert.Nil(t, cfg)
}
