package bridge

import (
	"strings"

	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

var services = []struct {
	category    types.Category
	name        string
	description string
}{
	{types.CategoryFilesystem, "File system", "Dialogs and file operations"},
	{types.CategoryApp, "Application", "Lifecycle, window and desktop integration"},
	{types.CategoryMenu, "Menus", "Native application menu tree"},
	{types.CategoryRuntime, "Runtime", "Auxiliary runtime state"},
}

// Catalog describes every operation grouped by category. Operations whose
// capability the back-end lacks are listed as unsupported.
func (b *Bridge) Catalog() []types.Service {
	caps := b.backend.Capabilities()

	catalog := make([]types.Service, 0, len(services))
	for _, svc := range services {
		service := types.Service{
			ID:           string(svc.category),
			Name:         svc.name,
			Description:  svc.description,
			Category:     svc.category,
			Capabilities: []string{},
			Operations:   []types.Operation{},
		}
		seen := make(map[string]bool)
		for _, op := range operations {
			if op.category != svc.category {
				continue
			}
			if op.requires != "" && !seen[op.requires] {
				seen[op.requires] = true
				service.Capabilities = append(service.Capabilities, op.requires)
			}
			service.Operations = append(service.Operations, describe(op, caps))
		}
		catalog = append(catalog, service)
	}
	return catalog
}

func describe(op *operation, caps types.Capabilities) types.Operation {
	params := op.params
	if params == nil {
		params = []types.Parameter{}
	}
	returns := append([]string{"error"}, op.returns...)
	return types.Operation{
		ID:          op.method,
		Name:        op.method[strings.IndexByte(op.method, '.')+1:],
		Description: op.summary,
		Parameters:  params,
		Returns:     returns,
		Supported:   supports(caps, op.requires),
	}
}

func supports(caps types.Capabilities, capability string) bool {
	switch capability {
	case "":
		return true
	case CapDialogs:
		return caps.Dialogs
	case CapTrash:
		return caps.Trash
	case CapNetworkDrive:
		return caps.NetworkDrive
	case CapCommandLineTools:
		return caps.CommandLineTools
	case CapLiveBrowser:
		return caps.LiveBrowser
	}
	return false
}
