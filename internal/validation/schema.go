package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rmviz/rmgantt/internal/gantt"
	"github.com/rmviz/rmgantt/internal/schedule"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

//go:embed result.schema.json
var resultSchemaJSON string

// resultSchema is the compiled JSON Schema for scheduler result documents.
var resultSchema *jsonschema.Schema

func init() {
	resultSchema = mustCompileSchema(resultSchemaJSON, "result.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateFile checks the document at path. A non-zero executionTime
// replaces the document resolution as the bar width, as it does when
// rendering. The returned slice lists every problem found; err is only set
// when the file cannot be read.
func ValidateFile(path string, executionTime float64) ([]string, error) {
	format := schedule.FormatFromPath(path)
	if format == schedule.FormatCSV {
		doc, err := schedule.LoadCSV(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			return []string{err.Error()}, nil
		}
		return checkChart(doc, executionTime), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	return ValidateBytes(data, format, executionTime), nil
}

// ValidateBytes validates a JSON or YAML document against the result schema
// and, when it conforms, checks that it yields a drawable chart.
func ValidateBytes(data []byte, format schedule.Format, executionTime float64) []string {
	var instance any
	switch format {
	case schedule.FormatYAML:
		if err := yaml.Unmarshal(data, &instance); err != nil {
			return []string{fmt.Sprintf("YAML parse error: %v", err)}
		}
	case schedule.FormatJSON, "":
		v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return []string{fmt.Sprintf("JSON parse error: %v", err)}
		}
		instance = v
	default:
		return []string{fmt.Sprintf("unsupported format %q", format)}
	}

	if errs := validateAgainstSchema(resultSchema, instance); len(errs) > 0 {
		return errs
	}

	doc, err := schedule.Parse(data, format)
	if err != nil {
		return []string{err.Error()}
	}
	return checkChart(doc, executionTime)
}

func checkChart(doc *schedule.Document, executionTime float64) []string {
	if executionTime == 0 {
		executionTime = doc.Metadata.Resolution
	}
	if _, err := gantt.Build(doc.Schedule, executionTime); err != nil {
		return []string{"/: " + err.Error()}
	}
	return nil
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
