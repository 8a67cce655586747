package inherit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/engine/inherit"
)

func buildConfig(t *testing.T, jobs ...*domain.Job) *domain.Config {
	t.Helper()
	cfg := domain.NewConfig(t.TempDir())
	for _, j := range jobs {
		require.NoError(t, cfg.AddJob(j))
	}
	return cfg
}

func name(s string) domain.InternedString {
	return domain.NewInternedString(s)
}

func TestResolver_Freeze_ChainComposition(t *testing.T) {
	cfg := buildConfig(t,
		&domain.Job{
			Name:        name("rally-tox-base"),
			Description: "Base description.",
			Abstract:    true,
			Nodeset:     name("ubuntu-jammy"),
			Timeout:     3600,
			PreRun:      []string{"playbooks/base/pre.yaml"},
			Run:         []string{"playbooks/base/run.yaml"},
			PostRun:     []string{"playbooks/base/post.yaml"},
		},
		&domain.Job{
			Name:    name("rally-tox-py3"),
			Parent:  name("rally-tox-base"),
			PreRun:  []string{"playbooks/py3/pre.yaml"},
			PostRun: []string{"playbooks/py3/post.yaml"},
		},
	)

	r := inherit.NewResolver()
	frozen, err := r.Freeze(cfg, name("rally-tox-py3"))
	require.NoError(t, err)

	assert.Equal(t, "rally-tox-py3", frozen.Name)
	assert.Equal(t, []string{"rally-tox-base", "rally-tox-py3"}, frozen.Ancestry)

	// Pre-run hooks nest ancestors-first, post-run hooks unwind.
	assert.Equal(t, []string{"playbooks/base/pre.yaml", "playbooks/py3/pre.yaml"}, frozen.PreRun)
	assert.Equal(t, []string{"playbooks/py3/post.yaml", "playbooks/base/post.yaml"}, frozen.PostRun)

	// Nothing closer defines these, so the base values hold.
	assert.Equal(t, []string{"playbooks/base/run.yaml"}, frozen.Run)
	assert.Equal(t, "ubuntu-jammy", frozen.Nodeset)
	assert.Equal(t, 3600, frozen.Timeout)

	// The parent's description does not leak into the child.
	assert.Empty(t, frozen.Description)
}

func TestResolver_Freeze_NearestWins(t *testing.T) {
	cfg := buildConfig(t,
		&domain.Job{
			Name:    name("base"),
			Nodeset: name("ubuntu-jammy"),
			Timeout: 3600,
			Run:     []string{"playbooks/base/run.yaml"},
		},
		&domain.Job{
			Name:    name("mid"),
			Parent:  name("base"),
			Nodeset: name("centos-9-stream"),
		},
		&domain.Job{
			Name:    name("leaf"),
			Parent:  name("mid"),
			Timeout: 600,
			Run:     []string{"playbooks/leaf/run.yaml"},
		},
	)

	r := inherit.NewResolver()
	frozen, err := r.Freeze(cfg, name("leaf"))
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "mid", "leaf"}, frozen.Ancestry)
	assert.Equal(t, "centos-9-stream", frozen.Nodeset)
	assert.Equal(t, 600, frozen.Timeout)
	assert.Equal(t, []string{"playbooks/leaf/run.yaml"}, frozen.Run)
}

func TestResolver_Freeze_Defaults(t *testing.T) {
	cfg := buildConfig(t, &domain.Job{Name: name("bare")})

	r := inherit.NewResolver()
	frozen, err := r.Freeze(cfg, name("bare"))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTimeout, frozen.Timeout)
	assert.Empty(t, frozen.Nodeset)
	assert.Empty(t, frozen.Run)
	assert.Equal(t, []string{"bare"}, frozen.Ancestry)
}

func TestResolver_Freeze_VarsMerge(t *testing.T) {
	cfg := buildConfig(t,
		&domain.Job{
			Name: name("base"),
			Vars: map[string]any{
				"tox_env": "py3",
				"rally": map[string]any{
					"plugins_dir": "~/.rally/plugins",
					"debug":       false,
				},
			},
		},
		&domain.Job{
			Name:   name("leaf"),
			Parent: name("base"),
			Vars: map[string]any{
				"tox_env": "pep8",
				"rally": map[string]any{
					"debug": true,
				},
				"extra": 1,
			},
		},
	)

	r := inherit.NewResolver()
	frozen, err := r.Freeze(cfg, name("leaf"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"tox_env": "pep8",
		"rally": map[string]any{
			"plugins_dir": "~/.rally/plugins",
			"debug":       true,
		},
		"extra": 1,
	}, frozen.Vars)

	// The source definitions stay untouched.
	base, _ := cfg.Job(name("base"))
	assert.Equal(t, "py3", base.Vars["tox_env"])
	assert.Equal(t, false, base.Vars["rally"].(map[string]any)["debug"])
}

func TestResolver_Freeze_Errors(t *testing.T) {
	t.Run("Unknown Job", func(t *testing.T) {
		cfg := buildConfig(t)
		r := inherit.NewResolver()

		_, err := r.Freeze(cfg, name("ghost"))
		require.Error(t, err)
		require.ErrorContains(t, err, domain.ErrUnknownJob.Error())
	})

	t.Run("Unknown Parent", func(t *testing.T) {
		cfg := buildConfig(t, &domain.Job{Name: name("child"), Parent: name("ghost")})
		r := inherit.NewResolver()

		_, err := r.Freeze(cfg, name("child"))
		require.Error(t, err)
		require.ErrorContains(t, err, domain.ErrUnknownParent.Error())
	})

	t.Run("Parent Cycle", func(t *testing.T) {
		cfg := buildConfig(t,
			&domain.Job{Name: name("a"), Parent: name("b")},
			&domain.Job{Name: name("b"), Parent: name("a")},
		)
		r := inherit.NewResolver()

		_, err := r.Freeze(cfg, name("a"))
		require.Error(t, err)
		require.ErrorContains(t, err, domain.ErrParentCycle.Error())
	})
}

func TestResolver_FreezeAll_DeclarationOrder(t *testing.T) {
	cfg := buildConfig(t,
		&domain.Job{Name: name("zz-last-defined-first")},
		&domain.Job{Name: name("aa-defined-second")},
	)

	r := inherit.NewResolver()
	frozen, err := r.FreezeAll(cfg)
	require.NoError(t, err)

	require.Len(t, frozen, 2)
	assert.Equal(t, "zz-last-defined-first", frozen[0].Name)
	assert.Equal(t, "aa-defined-second", frozen[1].Name)
}

func TestResolver_FreezePipeline(t *testing.T) {
	cfg := buildConfig(t,
		&domain.Job{Name: name("rally-tox-pep8")},
		&domain.Job{Name: name("rally-tox-py3")},
		&domain.Job{Name: name("rally-docker-build")},
	)
	cfg.AddProject(&domain.Project{
		Pipelines: map[domain.PipelineName][]domain.InternedString{
			domain.PipelineCheck: {name("rally-tox-pep8"), name("rally-tox-py3")},
			domain.PipelineGate:  {name("rally-tox-py3")},
		},
	})
	cfg.AddProject(&domain.Project{
		Pipelines: map[domain.PipelineName][]domain.InternedString{
			// Listed again by a second project; frozen once.
			domain.PipelineCheck: {name("rally-tox-py3"), name("rally-docker-build")},
		},
	})

	r := inherit.NewResolver()

	frozen, err := r.FreezePipeline(cfg, domain.PipelineCheck)
	require.NoError(t, err)
	names := make([]string, 0, len(frozen))
	for _, fj := range frozen {
		names = append(names, fj.Name)
	}
	assert.Equal(t, []string{"rally-tox-pep8", "rally-tox-py3", "rally-docker-build"}, names)

	gate, err := r.FreezePipeline(cfg, domain.PipelineGate)
	require.NoError(t, err)
	require.Len(t, gate, 1)
	assert.Equal(t, "rally-tox-py3", gate[0].Name)

	post, err := r.FreezePipeline(cfg, domain.PipelinePost)
	require.NoError(t, err)
	assert.Empty(t, post)

	_, err = r.FreezePipeline(cfg, domain.PipelineName("periodic"))
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrUnknownPipeline.Error())
}
