package legalname

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed termdata.yaml
var defaultTermData []byte

// TermData is the raw term dictionary: one mapping per label family from a
// label to the raw terms that imply it.
//
// Expected YAML format:
//
//	types:
//	  Limited: ["ltd", "gmbh", "oy"]
//	countries:
//	  Finland: ["oy", "oyj"]
type TermData struct {
	Types     map[string][]string `yaml:"types"`
	Countries map[string][]string `yaml:"countries"`
}

// LoadTermData parses a YAML term dictionary.
func LoadTermData(r io.Reader) (TermData, error) {
	var data TermData
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		if err == io.EOF {
			return TermData{}, nil
		}
		return TermData{}, eris.Wrap(err, "parse term data")
	}
	return data, nil
}

// LoadTermDataFile reads a YAML term dictionary from path.
func LoadTermDataFile(path string) (TermData, error) {
	f, err := os.Open(path)
	if err != nil {
		return TermData{}, eris.Wrapf(err, "open term data %s", path)
	}
	defer f.Close()

	data, err := LoadTermData(f)
	if err != nil {
		return TermData{}, eris.Wrapf(err, "load term data %s", path)
	}
	return data, nil
}

// DefaultTermData returns the built-in dictionary of legal-form terms.
func DefaultTermData() (TermData, error) {
	return LoadTermData(bytes.NewReader(defaultTermData))
}

// TermCount returns the number of (label, term) pairs across both families.
func (d TermData) TermCount() int {
	n := 0
	for _, terms := range d.Types {
		n += len(terms)
	}
	for _, terms := range d.Countries {
		n += len(terms)
	}
	return n
}
