package style

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role names used in style configuration files.
const (
	RoleTitle1      = "title-1"
	RoleTitle2      = "title-2"
	RoleTitle3      = "title-3"
	RoleTitle4      = "title-4"
	RoleContent     = "content"
	RoleKey         = "key"
	RolePic         = "pic"
	RoleTableHeader = "header"
	RoleTableCell   = "table"
)

// MaxDepth is the number of heading levels with their own title role.
const MaxDepth = 4

// Roles holds one resolved record per structural role of a report.
type Roles struct {
	Titles      [MaxDepth]Record
	Content     Record
	Key         Record // emphasized spans inside prose
	Pic         Record // picture and table captions
	TableHeader Record
	TableCell   Record
}

// Title returns the heading record for a 1-based nesting depth. Depths
// past the last configured level reuse the deepest one.
func (r Roles) Title(depth int) Record {
	switch {
	case depth < 1:
		depth = 1
	case depth > MaxDepth:
		depth = MaxDepth
	}
	return r.Titles[depth-1]
}

// ResolveRoles resolves every role from a configuration keyed by role
// name. Missing roles get the full default record.
func ResolveRoles(cfg map[string]Partial) Roles {
	var r Roles
	for i := range r.Titles {
		r.Titles[i] = Resolve(cfg[fmt.Sprintf("title-%d", i+1)])
	}
	r.Content = Resolve(cfg[RoleContent])
	r.Key = Resolve(cfg[RoleKey])
	r.Pic = Resolve(cfg[RolePic])
	r.TableHeader = Resolve(cfg[RoleTableHeader])
	r.TableCell = Resolve(cfg[RoleTableCell])
	return r
}

// Config maps role names to partial records.
type Config map[string]Partial

// Merge returns a copy of c with the roles of override replacing its own.
func (c Config) Merge(override Config) Config {
	out := make(Config, len(c)+len(override))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Parse decodes a style configuration. YAML is a superset of JSON, but
// JSON input goes through encoding/json so its error messages match the
// report decoder's.
func Parse(data []byte, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case ".json", "json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse style json: %w", err)
		}
	case ".yaml", ".yml", "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse style yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported style format: %s", format)
	}
	return cfg, nil
}

// LoadFile reads a style configuration from a .json, .yaml or .yml file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read styles: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}
