package assets

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ManifestName is the bundle key of the asset list.
const ManifestName = "manifest.yaml"

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Manifest lists the embedded assets copied into every project.
type Manifest struct {
	Version *semver.Version `yaml:"-"`
	Assets  []Asset         `yaml:"assets"`
}

// Asset describes one embedded template.
type Asset struct {
	Name       string `yaml:"name"`       // bundle key
	Dest       string `yaml:"dest"`       // slash-separated, relative to the project root
	Substitute bool   `yaml:"substitute"` // replace placeholder tokens in the content
}

type rawManifest struct {
	Version string  `yaml:"version"`
	Assets  []Asset `yaml:"assets"`
}

// LoadManifest reads and validates the manifest from p.
func LoadManifest(p Provider) (*Manifest, error) {
	data, err := Read(p, ManifestName)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, &PackagingError{Asset: ManifestName, Err: err}
	}
	return m, nil
}

// ParseManifest decodes YAML manifest bytes, checks them against the embedded
// JSON schema and parses the bundle version.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(raw.Version, "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing bundle version %q: %w", raw.Version, err)
	}

	seen := make(map[string]bool, len(raw.Assets))
	for _, a := range raw.Assets {
		if !fs.ValidPath(a.Dest) {
			return nil, fmt.Errorf("asset %q: destination %q escapes the project root", a.Name, a.Dest)
		}
		if seen[a.Dest] {
			return nil, fmt.Errorf("asset %q: duplicate destination %q", a.Name, a.Dest)
		}
		seen[a.Dest] = true
	}

	return &Manifest{Version: v, Assets: raw.Assets}, nil
}

// BundleVersion returns the version of the compiled-in template bundle.
func BundleVersion() (*semver.Version, error) {
	m, err := LoadManifest(Embedded())
	if err != nil {
		return nil, err
	}
	return m.Version, nil
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validateSchema round-trips the YAML document through JSON so the
// validator sees JSON-native types, then reports leaf-level issues.
func validateSchema(doc interface{}) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []string
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(issues, "; "))
}

// collectIssues walks the error tree and keeps the leaves, which carry the
// property-specific messages.
func collectIssues(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}
	if ve.ErrorKind == nil {
		return
	}
	msg := ve.ErrorKind.LocalizedString(printer)
	if len(ve.InstanceLocation) > 0 {
		msg = "/" + strings.Join(ve.InstanceLocation, "/") + ": " + msg
	}
	*issues = append(*issues, msg)
}
