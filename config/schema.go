package config

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/grovetools/specpreview/schema"
)

var (
	compileOnce sync.Once
	compiled    *schema.Validator
	compileErr  error
)

// schemaValidator compiles the generated schema once per process.
func schemaValidator() (*schema.Validator, error) {
	compileOnce.Do(func() {
		var data []byte
		data, compileErr = GenerateSchema()
		if compileErr != nil {
			return
		}
		compiled, compileErr = schema.Compile("specpreview.schema.json", data)
	})
	return compiled, compileErr
}

// schemaConfig mirrors Config for schema generation. Extension sections are
// allowed as additional top-level properties.
type schemaConfig struct {
	Workspace string              `yaml:"workspace,omitempty" jsonschema:"description=Workspace root; relative paths resolve against the config file directory"`
	Folder    string              `yaml:"folder,omitempty" jsonschema:"description=Folder under the workspace root whose files are previewed,default=specs"`
	Exclude   []string            `yaml:"exclude,omitempty" jsonschema:"description=File patterns left out of the preview"`
	Server    *schemaServerConfig `yaml:"server,omitempty" jsonschema:"description=HTTP preview target"`
	Editor    *schemaEditorConfig `yaml:"editor,omitempty" jsonschema:"description=Source of unsaved editor buffers"`
}

type schemaServerConfig struct {
	Listen      string `yaml:"listen,omitempty" jsonschema:"description=host:port to listen on,default=127.0.0.1:7878"`
	OpenBrowser bool   `yaml:"open_browser,omitempty" jsonschema:"description=Open the preview in a browser on start"`
}

type schemaEditorConfig struct {
	NvimAddress string `yaml:"nvim_address,omitempty" jsonschema:"description=Neovim RPC address; defaults to $NVIM"`
}

// GenerateSchema generates the JSON Schema for specpreview configuration files.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&schemaConfig{})
	schema.Title = "specpreview configuration"
	schema.Description = "Schema for specpreview.yml / specpreview.toml."
	// Unknown top-level keys are extension sections such as "logging".
	schema.AdditionalProperties = jsonschema.TrueSchema

	return json.MarshalIndent(schema, "", "  ")
}
