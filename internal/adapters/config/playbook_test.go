package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pregate/pregate/internal/core/domain"
)

func TestLoader_ParsePlaybook_AllActions(t *testing.T) {
	loader := newLoader(t)

	pb, err := loader.ParsePlaybook("pre.yaml", []byte(`
- name: Prepare host
  hosts: all
  tasks:
    - name: Check for yum
      command: yum --version
      register: yum_exists
      ignore_errors: true

    - name: Install packages
      shell: |
        yum update -y
        yum install -y gmp-devel
      when: yum_exists.rc == 0

    - name: Create plugins directory
      file:
        path: ~/.rally/plugins
        state: directory

    - name: Copy plugins
      copy:
        src: rally-jobs/plugins
        dest: ~/.rally/plugins
`))
	require.NoError(t, err)
	require.Len(t, pb.Plays, 1)
	assert.Equal(t, "pre.yaml", pb.Path)
	assert.Equal(t, 4, pb.TaskCount())

	play := pb.Plays[0]
	assert.Equal(t, "Prepare host", play.Name)
	assert.Equal(t, []string{"all"}, play.Hosts)
	require.Len(t, play.Tasks, 4)

	probe := play.Tasks[0]
	assert.Equal(t, domain.TaskKindCommand, probe.Kind())
	assert.Equal(t, []string{"yum", "--version"}, probe.Command)
	assert.Equal(t, "yum_exists", probe.Register)
	assert.True(t, probe.IgnoreErrors)
	assert.Equal(t, []string{"all"}, probe.Hosts)

	install := play.Tasks[1]
	assert.Equal(t, domain.TaskKindShell, install.Kind())
	assert.Contains(t, install.Shell, "yum install -y gmp-devel")
	assert.Equal(t, "yum_exists.rc == 0", install.When)

	mkdir := play.Tasks[2]
	assert.Equal(t, domain.TaskKindFile, mkdir.Kind())
	assert.Equal(t, "~/.rally/plugins", mkdir.File.Path)
	assert.Equal(t, "directory", mkdir.File.State)

	cp := play.Tasks[3]
	assert.Equal(t, domain.TaskKindCopy, cp.Kind())
	assert.Equal(t, "rally-jobs/plugins", cp.Copy.Src)
	assert.Equal(t, "~/.rally/plugins", cp.Copy.Dest)
}

func TestLoader_ParsePlaybook_DefaultHosts(t *testing.T) {
	loader := newLoader(t)

	pb, err := loader.ParsePlaybook("run.yaml", []byte(`
- tasks:
    - name: Run tox
      command: tox -e py3
`))
	require.NoError(t, err)
	require.Len(t, pb.Plays, 1)
	assert.Equal(t, []string{"all"}, pb.Plays[0].Hosts)
	assert.Equal(t, []string{"all"}, pb.Plays[0].Tasks[0].Hosts)
}

func TestLoader_ParsePlaybook_HostList(t *testing.T) {
	loader := newLoader(t)

	pb, err := loader.ParsePlaybook("run.yaml", []byte(`
- hosts: [primary, secondary]
  tasks:
    - name: Probe
      command: uname -a
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"primary", "secondary"}, pb.Plays[0].Hosts)
}

func TestLoader_ParsePlaybook_Empty(t *testing.T) {
	loader := newLoader(t)

	pb, err := loader.ParsePlaybook("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, pb.Plays)
	assert.Equal(t, 0, pb.TaskCount())
}

func TestLoader_ParsePlaybook_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectedErr error
		errContains string
	}{
		{
			name: "Two Actions",
			content: `
- hosts: all
  tasks:
    - name: Broken
      command: echo hi
      shell: echo hi
`,
			expectedErr: domain.ErrInvalidTask,
		},
		{
			name: "No Action",
			content: `
- hosts: all
  tasks:
    - name: Broken
      register: out
`,
			expectedErr: domain.ErrInvalidTask,
		},
		{
			name: "Unknown Task Field",
			content: `
- hosts: all
  tasks:
    - name: Probe
      command: yum --version
      ignore_error: true
`,
			expectedErr: domain.ErrPlaybookParseFailed,
		},
		{
			name:        "Not A Play List",
			content:     `hosts: all`,
			expectedErr: domain.ErrPlaybookParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newLoader(t)

			pb, err := loader.ParsePlaybook("broken.yaml", []byte(tt.content))
			require.Error(t, err)
			if tt.expectedErr != nil {
				require.ErrorContains(t, err, tt.expectedErr.Error())
			}
			if tt.errContains != "" {
				require.ErrorContains(t, err, tt.errContains)
			}
			assert.Nil(t, pb)
		})
	}
}

func TestLoader_LoadPlaybook(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()

	createFile(t, rootDir, filepath.Join("playbooks", "pre.yaml"), `
- hosts: all
  tasks:
    - name: Probe
      command: apt-get --version
      register: apt_exists
      ignore_errors: true
`)

	pb, err := loader.LoadPlaybook(filepath.Join(rootDir, "playbooks", "pre.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, pb.TaskCount())
	assert.Equal(t, "apt_exists", pb.Plays[0].Tasks[0].Register)
}

func TestLoader_LoadPlaybook_Missing(t *testing.T) {
	loader := newLoader(t)
	rootDir := t.TempDir()

	pb, err := loader.LoadPlaybook(filepath.Join(rootDir, "playbooks", "absent.yaml"))
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrMissingPlaybook.Error())
	assert.Nil(t, pb)
}
