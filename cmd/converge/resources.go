package main

import (
	"github.com/alexisbeaulieu97/converge/internal/resource"
	commandresource "github.com/alexisbeaulieu97/converge/internal/resource/command"
	fileresource "github.com/alexisbeaulieu97/converge/internal/resource/file"
	lineinfileresource "github.com/alexisbeaulieu97/converge/internal/resource/lineinfile"
	reporesource "github.com/alexisbeaulieu97/converge/internal/resource/repo"
	symlinkresource "github.com/alexisbeaulieu97/converge/internal/resource/symlink"
)

// newResourceRegistry wires every built-in resource type.
func newResourceRegistry() (*resource.Registry, error) {
	reg := resource.NewRegistry()

	factories := map[string]resource.Factory{
		"file":         fileresource.New(),
		"symlink":      symlinkresource.New(),
		"line_in_file": lineinfileresource.New(),
		"command":      commandresource.New(),
		"repo":         reporesource.New(),
	}

	for name, factory := range factories {
		if err := reg.Register(name, factory); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
