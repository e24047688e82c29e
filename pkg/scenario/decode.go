package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/questline/pkg/domain"
)

var validate = validator.New()

// Decode reads a YAML scenario document.
func Decode(r io.Reader) (*Document, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return DecodeMap(raw)
}

// DecodeMap converts generic data (parsed YAML, frontmatter) into a validated Document.
func DecodeMap(raw map[string]any) (*Document, error) {
	var doc Document
	if err := decodeInto(raw, &doc); err != nil {
		return nil, err
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the struct tags of a Document or StateSpec.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}

func decodeInto(raw any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode scenario: %w", err)
	}
	return nil
}

// FileLoader loads a YAML scenario from disk.
type FileLoader struct {
	Path string
}

// Load implements ports.ScenarioLoader.
func (l FileLoader) Load(ctx context.Context) ([]domain.Fact, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	return doc.Facts()
}
