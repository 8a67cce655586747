// Package prep carries the canonical host-preparation sequence: probe the
// host's package managers, run the platform install branch whose probe
// succeeded, refresh the pip-installed rally dependency and place the plugin
// files into the per-user plugin directory.
package prep

import (
	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports"
)

// DocumentName is the name the embedded document reports in errors.
const DocumentName = "prepare-host.yaml"

// PluginsDir is the per-user directory plugin files are installed into.
const PluginsDir = "~/.rally/plugins"

// document is the canonical sequence. The literal command strings are the
// interface: exit-status gating over these exact probes decides which
// platform branch installs. The probes are unconditional and tolerate
// failure; a host with none of the managers falls through without
// installing anything.
const document = `---
- name: Prepare host for plugin installation
  hosts: all
  tasks:
    - name: Check the existence of yum
      command: yum --version
      register: yum_exists
      ignore_errors: true

    - name: Check the existence of apt-get
      command: apt-get --version
      register: apt_exists
      ignore_errors: true

    - name: Check the existence of zypper
      command: zypper --version
      register: zypper_exists
      ignore_errors: true

    - name: Install system packages (CentOS-7)
      shell: |
        sudo yum install -y gcc libffi-devel python-devel openssl-devel
      when: yum_exists.rc == 0

    - name: Install system packages (Ubuntu)
      shell: |
        sudo apt-get update
        sudo apt-get install -y gcc libffi-dev python-dev libssl-dev
      when: apt_exists.rc == 0

    - name: Remove the stale rally package
      shell: sudo pip uninstall -y rally || true

    - name: Install rally
      shell: sudo pip install --upgrade rally

    - name: Create the plugins directory
      file:
        path: ~/.rally/plugins
        state: directory

    - name: Copy plugins
      copy:
        src: rally-jobs/plugins/.
        dest: ~/.rally/plugins
`

// Source returns the canonical host-preparation playbook document.
func Source() []byte {
	return []byte(document)
}

// Load parses the canonical document through the configuration adapter, the
// same code path user-supplied playbooks take.
func Load(loader ports.ConfigLoader) (*domain.Playbook, error) {
	return loader.ParsePlaybook(DocumentName, Source())
}
