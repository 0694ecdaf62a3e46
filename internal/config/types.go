package config

import (
	"gopkg.in/yaml.v3"
)

// Manifest represents a full Converge manifest document.
type Manifest struct {
	Version     string     `yaml:"version" validate:"required,semver"`
	Name        string     `yaml:"name" validate:"required,min=1,max=100"`
	Description string     `yaml:"description,omitempty"`
	Settings    Settings   `yaml:"settings,omitempty"`
	Resources   []Resource `yaml:"resources" validate:"required,min=1,dive"`
}

// Settings holds global execution parameters.
type Settings struct {
	Timeout         int  `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=86400"`
	ContinueOnError bool `yaml:"continue_on_error,omitempty"`
	Verbose         bool `yaml:"verbose,omitempty"`
}

// Resource declares one target state to converge to.
type Resource struct {
	ID      string `yaml:"id" validate:"required,resource_id"`
	Name    string `yaml:"name,omitempty"`
	Type    string `yaml:"type" validate:"required,oneof=file symlink line_in_file command repo"`
	Enabled bool   `yaml:"enabled,omitempty"`

	File       *FileResource       `yaml:",inline,omitempty"`
	Symlink    *SymlinkResource    `yaml:",inline,omitempty"`
	LineInFile *LineInFileResource `yaml:",inline,omitempty"`
	Command    *CommandResource    `yaml:",inline,omitempty"`
	Repo       *RepoResource       `yaml:",inline,omitempty"`
}

// UnmarshalYAML customises resource decoding so only the declared type's
// configuration is populated.
func (r *Resource) UnmarshalYAML(value *yaml.Node) error {
	type baseResource struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Type    string `yaml:"type"`
		Enabled *bool  `yaml:"enabled"`
	}

	var base baseResource
	if err := value.Decode(&base); err != nil {
		return err
	}

	r.ID = base.ID
	r.Name = base.Name
	r.Type = base.Type
	if base.Enabled != nil {
		r.Enabled = *base.Enabled
	} else {
		r.Enabled = true
	}

	r.File = nil
	r.Symlink = nil
	r.LineInFile = nil
	r.Command = nil
	r.Repo = nil

	switch base.Type {
	case "file":
		var file FileResource
		if err := value.Decode(&file); err != nil {
			return err
		}
		r.File = &file
	case "symlink":
		var link SymlinkResource
		if err := value.Decode(&link); err != nil {
			return err
		}
		r.Symlink = &link
	case "line_in_file":
		var line LineInFileResource
		if err := value.Decode(&line); err != nil {
			return err
		}
		r.LineInFile = &line
	case "command":
		var cmd CommandResource
		if err := value.Decode(&cmd); err != nil {
			return err
		}
		r.Command = &cmd
	case "repo":
		var repo RepoResource
		if err := value.Decode(&repo); err != nil {
			return err
		}
		r.Repo = &repo
	}

	return nil
}

// FileResource ensures a file exists, optionally with exact content and
// permissions. Mode is an octal string such as "0644".
type FileResource struct {
	Path    string `yaml:"path" validate:"required"`
	Content string `yaml:"content,omitempty"`
	Mode    string `yaml:"mode,omitempty" validate:"omitempty,file_mode"`
}

// SymlinkResource ensures a symbolic link points at a source.
type SymlinkResource struct {
	Source string `yaml:"source" validate:"required"`
	Target string `yaml:"target" validate:"required,nefield=Source"`
	Force  bool   `yaml:"force,omitempty"`
}

// LineInFileResource ensures a file contains an exact line.
type LineInFileResource struct {
	Path string `yaml:"path" validate:"required"`
	Line string `yaml:"line" validate:"required,min=1"`
}

// CommandResource uses a probe command to decide state and a convergence
// command to reach it. An empty probe means the state is never met.
type CommandResource struct {
	Command string            `yaml:"command" validate:"required,min=1"`
	Check   string            `yaml:"check,omitempty"`
	Shell   string            `yaml:"shell,omitempty"`
	WorkDir string            `yaml:"workdir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// RepoResource ensures a directory is a git clone of a URL.
type RepoResource struct {
	URL         string `yaml:"url" validate:"required"`
	Destination string `yaml:"destination" validate:"required"`
	Branch      string `yaml:"branch,omitempty"`
	Depth       int    `yaml:"depth,omitempty" validate:"omitempty,min=0"`
}
