package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Reserved keys written by the scheduler next to the task entries.
const (
	KeyDeadTime    = "deadTime"
	KeySumDeadTime = "sumDeadTime"
	KeyResolution  = "resolution"
)

// ReservedKeys lists the bookkeeping keys in the order they are removed.
var ReservedKeys = []string{KeyDeadTime, KeySumDeadTime, KeyResolution}

// DefaultPath is the file the scheduler writes its result to.
const DefaultPath = "result.json"

var (
	// ErrMissingReservedKey is matched by *MissingKeyError.
	ErrMissingReservedKey = errors.New("missing reserved key")
	// ErrUnsupportedFormat is returned for input formats with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported schedule format")
)

// MissingKeyError reports a reserved key absent from a document.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("document has no %q key", e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingReservedKey
}

// Format identifies an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks a format from the file extension, JSON by default.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	default:
		return FormatJSON
	}
}

// Metadata is the scheduler bookkeeping stripped from a document.
type Metadata struct {
	DeadTime    []float64 `mapstructure:"deadTime" json:"deadTime"`
	SumDeadTime float64   `mapstructure:"sumDeadTime" json:"sumDeadTime"`
	Resolution  float64   `mapstructure:"resolution" json:"resolution"`
}

// Document is a loaded scheduler result.
type Document struct {
	Schedule *Schedule
	Metadata Metadata
	// HasMetadata is false for formats that carry no reserved keys (CSV).
	HasMetadata bool
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	format := FormatFromPath(path)
	if format == FormatCSV {
		return LoadCSV(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a JSON or YAML document, removes the reserved keys and
// returns the remaining entries as a schedule.
func Parse(data []byte, format Format) (*Document, error) {
	raw := orderedmap.New[string, any]()

	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(data, raw); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w", err)
		}
	case FormatYAML:
		if err := decodeYAML(data, raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	meta := make(map[string]any, len(ReservedKeys))
	for _, key := range ReservedKeys {
		v, ok := raw.Delete(key)
		if !ok {
			return nil, &MissingKeyError{Key: key}
		}
		meta[key] = v
	}

	doc := &Document{Schedule: New(), HasMetadata: true}
	if err := decodeMetadata(meta, &doc.Metadata); err != nil {
		return nil, err
	}

	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		times, err := toFiringTimes(pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		doc.Schedule.Set(pair.Key, times...)
	}
	return doc, nil
}

// decodeYAML walks the top-level mapping node so key order survives.
func decodeYAML(data []byte, dst *orderedmap.OrderedMap[string, any]) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("decoding YAML: %w", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return nil // empty document
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("decoding YAML: top level must be a mapping, got line %d", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("decoding YAML key %q: %w", node.Content[i].Value, err)
		}
		dst.Set(node.Content[i].Value, v)
	}
	return nil
}

func decodeMetadata(meta map[string]any, md *Metadata) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("creating metadata decoder: %w", err)
	}
	if err := dec.Decode(meta); err != nil {
		return fmt.Errorf("decoding metadata: %w", err)
	}
	return nil
}
