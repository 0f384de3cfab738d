// Package config reads and writes the on-disk forms of transforms and fact lists.
// Two document kinds exist: a single transform (rotation plus optional translation)
// and a fact list (an array of src/dst/transform entries) from which a transform set
// is built. Both come in JSON and YAML, normally chosen by file extension.
package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gopkg.in/yaml.v3"

	"github.com/tfkit/tfkit/transformset"
)

// Format is a file encoding.
type Format string

// The supported file encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// GuessFormat maps a path to its encoding by extension. It reports false for "-",
// for extensionless paths and for unknown extensions; callers needing a format then
// have to be told one explicitly.
func GuessFormat(path string) (Format, bool) {
	if path == "-" {
		return "", false
	}
	switch filepath.Ext(path) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

func decode(r io.Reader, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		return json.NewDecoder(r).Decode(v)
	case FormatYAML:
		return yaml.NewDecoder(r).Decode(v)
	}
	return errors.Errorf("file format %q not recognized", format)
}

func encode(w io.Writer, format Format, pretty bool, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.Errorf("file format %q not recognized", format)
}

// ReadTransform reads a single transform document from the path, guessing the format
// from the extension.
func ReadTransform(path string) (*TransformConfig, error) {
	format, ok := GuessFormat(path)
	if !ok {
		return nil, errors.Errorf("unable to determine the file format for path %q", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(file.Close)
	return ReadTransformFrom(file, format)
}

// ReadTransformFrom reads a single transform document from the reader.
func ReadTransformFrom(r io.Reader, format Format) (*TransformConfig, error) {
	var tf TransformConfig
	if err := decode(r, format, &tf); err != nil {
		return nil, err
	}
	return &tf, nil
}

// WriteTransform writes a single transform document to the writer.
func WriteTransform(w io.Writer, tf *TransformConfig, format Format, pretty bool) error {
	return encode(w, format, pretty, tf)
}

// readFactConfigs decodes a fact-list document into facts.
func readFactConfigs(r io.Reader, format Format) ([]transformset.Fact, error) {
	var configs []FactConfig
	if err := decode(r, format, &configs); err != nil {
		return nil, err
	}
	facts := make([]transformset.Fact, 0, len(configs))
	for i := range configs {
		fact, err := configs[i].Fact()
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

// ReadTransformSet reads a fact-list file and builds a transform set from it,
// guessing the format from the extension.
func ReadTransformSet(path string) (*transformset.TransformSet, error) {
	format, ok := GuessFormat(path)
	if !ok {
		return nil, errors.Errorf("unable to determine the file format for path %q", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(file.Close)
	return ReadTransformSetFrom(file, format)
}

// ReadTransformSetFrom reads a fact-list document from the reader and builds a
// transform set from it.
func ReadTransformSetFrom(r io.Reader, format Format) (*transformset.TransformSet, error) {
	facts, err := readFactConfigs(r, format)
	if err != nil {
		return nil, err
	}
	return transformset.NewTransformSet(facts)
}

// WriteOptions controls how WriteTransformSet encodes its output. The zero value
// writes compact documents with quaternion rotations.
type WriteOptions struct {
	Rotation RotationFormat
	Unit     AngleUnit
	Pretty   bool
}

// WriteTransformSet writes the set's spanning fact list to the writer. Rebuilding a
// set from the written list answers all the same queries as the original.
func WriteTransformSet(w io.Writer, set *transformset.TransformSet, format Format, opts WriteOptions) error {
	if opts.Rotation == "" {
		opts.Rotation = QuaternionFormat
	}
	if opts.Unit == "" {
		opts.Unit = Radian
	}

	facts := set.ToFacts()
	configs := make([]FactConfig, 0, len(facts))
	for _, fact := range facts {
		fc, err := NewFactConfig(fact, opts.Rotation, opts.Unit)
		if err != nil {
			return err
		}
		configs = append(configs, *fc)
	}
	return encode(w, format, opts.Pretty, configs)
}

// ReadTransformSetFromDir builds one transform set from every fact-list file in the
// directory, merging them through the general insert path so facts from different
// files may relate, repeat or bridge each other. Files with unrecognized extensions
// are skipped with a log line; an inconsistency between files is an error naming the
// file that introduced it.
func ReadTransformSetFromDir(dir string, logger golog.Logger) (*transformset.TransformSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	set := transformset.NewEmptyTransformSet()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		format, ok := GuessFormat(path)
		if !ok {
			logger.Debugw("skipping file with unrecognized extension", "path", path)
			continue
		}
		if err := insertFactsFromFile(set, path, format); err != nil {
			return nil, errors.Wrapf(err, "loading %q", path)
		}
		logger.Debugw("loaded fact file", "path", path)
	}
	return set, nil
}

func insertFactsFromFile(set *transformset.TransformSet, path string, format Format) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(file.Close)

	facts, err := readFactConfigs(file, format)
	if err != nil {
		return err
	}
	for _, fact := range facts {
		if err := set.Insert(fact.Src, fact.Dst, fact.Transform); err != nil {
			return err
		}
	}
	return nil
}
