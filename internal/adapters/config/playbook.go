package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/pregate/pregate/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// LoadPlaybook reads and parses the playbook at path.
func (l *Loader) LoadPlaybook(path string) (*domain.Playbook, error) {
	// #nosec G304 -- path comes from a job definition under the config root
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrMissingPlaybook, "playbook", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read playbook"), "playbook", path)
	}
	return l.ParsePlaybook(path, data)
}

// ParsePlaybook parses a playbook document held in memory. name is used for
// error reporting only.
//
// Decoding is strict: a misspelled task key would silently change run
// semantics, so unknown fields are rejected.
func (l *Loader) ParsePlaybook(name string, data []byte) (*domain.Playbook, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var plays []PlayDTO
	if err := dec.Decode(&plays); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPlaybookParseFailed.Error()), "playbook", name)
	}

	pb := &domain.Playbook{Path: name}
	for i := range plays {
		play, err := convertPlay(name, &plays[i])
		if err != nil {
			return nil, err
		}
		pb.Plays = append(pb.Plays, play)
	}
	return pb, nil
}

// convertPlay builds the domain play. A play without hosts targets all.
func convertPlay(playbook string, dto *PlayDTO) (*domain.Play, error) {
	hosts := dto.Hosts
	if len(hosts) == 0 {
		hosts = StringList{"all"}
	}

	play := &domain.Play{
		Name:  dto.Name,
		Hosts: hosts,
	}
	for i := range dto.Tasks {
		task, err := convertTask(playbook, play.Hosts, &dto.Tasks[i])
		if err != nil {
			return nil, err
		}
		play.Tasks = append(play.Tasks, task)
	}
	return play, nil
}

func convertTask(playbook string, hosts []string, dto *TaskDTO) (*domain.PlaybookTask, error) {
	actions := 0
	if dto.Command != "" {
		actions++
	}
	if dto.Shell != "" {
		actions++
	}
	if dto.Copy != nil {
		actions++
	}
	if dto.File != nil {
		actions++
	}
	if actions != 1 {
		err := zerr.With(domain.ErrInvalidTask, "task", dto.Name)
		err = zerr.With(err, "actions", actions)
		return nil, zerr.With(err, "playbook", playbook)
	}

	task := &domain.PlaybookTask{
		Name:         dto.Name,
		Hosts:        hosts,
		Shell:        dto.Shell,
		When:         strings.TrimSpace(dto.When),
		Register:     dto.Register,
		IgnoreErrors: dto.IgnoreErrors,
	}
	if dto.Command != "" {
		task.Command = strings.Fields(dto.Command)
	}
	if dto.Copy != nil {
		task.Copy = &domain.CopyAction{Src: dto.Copy.Src, Dest: dto.Copy.Dest}
	}
	if dto.File != nil {
		task.File = &domain.FileAction{Path: dto.File.Path, State: dto.File.State}
	}
	return task, nil
}
