package types

// Category groups bridge operations
type Category string

const (
	CategoryFilesystem Category = "filesystem"
	CategoryApp        Category = "app"
	CategoryMenu       Category = "menu"
	CategoryRuntime    Category = "runtime"
)

// Service represents a group of bridge operations
type Service struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Category     Category    `json:"category"`
	Capabilities []string    `json:"capabilities"`
	Operations   []Operation `json:"operations"`
}

// Operation represents one named bridge call
type Operation struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     []string    `json:"returns"`
	Supported   bool        `json:"supported"`
}

// Parameter represents a positional argument
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Capabilities lists the optional operations a platform back-end supports.
type Capabilities struct {
	Dialogs          bool `json:"dialogs"`
	Trash            bool `json:"trash"`
	NetworkDrive     bool `json:"networkDrive"`
	CommandLineTools bool `json:"commandLineTools"`
	RemoteDebugging  bool `json:"remoteDebugging"`
	LiveBrowser      bool `json:"liveBrowser"`
}
