package shader

import (
	"fmt"
	"sort"
	"strings"
)

// registryEntry pairs a WGSL struct source with the type name declarations refer to.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry map[AnnotationArg]registryEntry
	declarations   []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include annotations with the registered struct source and group
	// annotations with generated binding declarations. Each struct is injected at most
	// once; repeated includes are dropped.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the processed source
	//   - error: the first malformed or unknown annotation
	Process(source string) (string, error)

	// Declarations returns the group annotations from the last Process call, in source
	// order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// PreProcessorOption configures a PreProcessor.
type PreProcessorOption func(*preProcessor)

// WithStruct registers a struct source under key. typeName is the WGSL type name the
// source declares.
//
// Parameters:
//   - key: the annotation argument naming the struct
//   - typeName: the WGSL struct name
//   - source: the WGSL struct definition
//
// Returns:
//   - PreProcessorOption: the option
func WithStruct(key AnnotationArg, typeName, source string) PreProcessorOption {
	return func(p *preProcessor) {
		p.structRegistry[key] = registryEntry{Source: strings.TrimRight(source, "\n"), Type: typeName}
	}
}

// NewPreProcessor creates a PreProcessor over the registered structs.
//
// Parameters:
//   - options: WithStruct registrations
//
// Returns:
//   - PreProcessor: the pre-processor
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{structRegistry: make(map[AnnotationArg]registryEntry)}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) known() []AnnotationArg {
	keys := make([]AnnotationArg, 0, len(p.structRegistry))
	for k := range p.structRegistry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil
	known := p.known()
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1, known)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, p.structRegistry[a.Args[0]].Source)
		case AnnotationTypeBindingGroup:
			wgslType := p.typeName(string(a.Args[2]))
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, addressSpaces[a.Args[0]], a.Args[1], wgslType))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) typeName(arg string) string {
	if inner, ok := strings.CutPrefix(arg, "array<"); ok {
		inner = strings.TrimSuffix(inner, ">")
		return fmt.Sprintf("array<%s>", p.structRegistry[AnnotationArg(inner)].Type)
	}
	return p.structRegistry[AnnotationArg(arg)].Type
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
