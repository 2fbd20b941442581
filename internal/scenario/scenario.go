// Package scenario runs declarative iteration checks against runtime values.
//
// A scenario file declares classes by the protocols they expose (index
// access, explicit iterator, lengths) and a list of checks that iterate
// instances of them and compare what comes out.
package scenario

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"

	"iterproto/internal/diag"
)

var log = commonlog.GetLogger("iterproto.scenario")

// Ops understood by checks.
const (
	OpIter       = "iter"
	OpList       = "list"
	OpTuple      = "tuple"
	OpReversed   = "reversed"
	OpLen        = "len"
	OpLengthHint = "length_hint"
	OpNext       = "next"
	OpStopValue  = "stop_value"
)

var knownOps = map[string]bool{
	OpIter: true, OpList: true, OpTuple: true, OpReversed: true,
	OpLen: true, OpLengthHint: true, OpNext: true, OpStopValue: true,
}

// ItemError makes __getitem__ raise Error at Index.
type ItemError struct {
	Index int64  `yaml:"index" toml:"index"`
	Error string `yaml:"error" toml:"error"`
}

// ClassDecl declares a runtime class by the protocols it exposes.
type ClassDecl struct {
	Name  string   `yaml:"name" toml:"name"`
	Bases []string `yaml:"bases" toml:"bases"`
	// Items backs __getitem__; indices past the end raise IndexError.
	Items        []any      `yaml:"items" toml:"items"`
	GetItemError *ItemError `yaml:"getitem_error" toml:"getitem_error"`
	// IterItems backs an explicit __iter__/__next__ pair.
	IterItems []any  `yaml:"iter_items" toml:"iter_items"`
	StopValue any    `yaml:"stop_value" toml:"stop_value"`
	NextError string `yaml:"next_error" toml:"next_error"`
	// Len and LengthHint are returned verbatim, whatever their type.
	Len             any    `yaml:"len" toml:"len"`
	LenError        string `yaml:"len_error" toml:"len_error"`
	LengthHint      any    `yaml:"length_hint" toml:"length_hint"`
	LengthHintError string `yaml:"length_hint_error" toml:"length_hint_error"`
	ReversedItems   []any  `yaml:"reversed_items" toml:"reversed_items"`

	Pos diag.Range `yaml:"-" toml:"-"`
}

// Check runs Op against a fresh instance of Target, or against Value when
// Target is empty.
type Check struct {
	Name   string `yaml:"name" toml:"name"`
	Op     string `yaml:"op" toml:"op"`
	Target string `yaml:"target" toml:"target"`
	Value  any    `yaml:"value" toml:"value"`
	// Count is the number of next() calls for OpNext.
	Count   int `yaml:"count" toml:"count"`
	Default any `yaml:"default" toml:"default"`

	Values []any `yaml:"values" toml:"values"`
	// Hint is the expected len/length_hint; Unknown expects no hint.
	Hint    *int64 `yaml:"hint" toml:"hint"`
	Unknown bool   `yaml:"unknown" toml:"unknown"`
	// Exhausted is how many further advances must report exhaustion.
	Exhausted int `yaml:"exhausted" toml:"exhausted"`
	// Stop is the expected exhaustion payload; StopNone expects None.
	Stop          any    `yaml:"stop" toml:"stop"`
	StopNone      bool   `yaml:"stop_none" toml:"stop_none"`
	Error         string `yaml:"error" toml:"error"`
	ErrorContains string `yaml:"error_contains" toml:"error_contains"`

	Pos diag.Range `yaml:"-" toml:"-"`
}

type Scenario struct {
	Path    string      `yaml:"-" toml:"-"`
	Name    string      `yaml:"name" toml:"name"`
	Classes []ClassDecl `yaml:"-" toml:"classes"`
	Checks  []Check     `yaml:"-" toml:"checks"`
}

// yamlScenario keeps node positions so diagnostics can point into the file.
type yamlScenario struct {
	Name    string      `yaml:"name"`
	Classes []yaml.Node `yaml:"classes"`
	Checks  []yaml.Node `yaml:"checks"`
}

// Load reads a scenario from a .yaml, .yml or .toml file and validates it.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scenario")
	}
	return Parse(path, b)
}

// Parse decodes data according to the extension of path.
func Parse(path string, data []byte) (*Scenario, error) {
	var sc *Scenario
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		sc, err = parseYAML(data)
	case ".toml":
		sc = &Scenario{}
		err = toml.Unmarshal(data, sc)
	default:
		return nil, errors.Errorf("%s: unsupported scenario extension %q", path, ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	sc.Path = path
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	log.Debugf("loaded %s: %d classes, %d checks", path, len(sc.Classes), len(sc.Checks))
	return sc, nil
}

func parseYAML(data []byte) (*Scenario, error) {
	var raw yamlScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	sc := &Scenario{Name: raw.Name}
	for i := range raw.Classes {
		node := &raw.Classes[i]
		var decl ClassDecl
		if err := node.Decode(&decl); err != nil {
			return nil, err
		}
		decl.Pos = diag.Range{Line: node.Line, Col: node.Column}
		sc.Classes = append(sc.Classes, decl)
	}
	for i := range raw.Checks {
		node := &raw.Checks[i]
		var chk Check
		if err := node.Decode(&chk); err != nil {
			return nil, err
		}
		chk.Pos = diag.Range{Line: node.Line, Col: node.Column}
		sc.Checks = append(sc.Checks, chk)
	}
	return sc, nil
}

// Validate reports structural problems as a diag.List.
func (sc *Scenario) Validate() error {
	diags := &diag.List{Path: sc.Path}
	declared := map[string]bool{}
	for _, cls := range sc.Classes {
		switch {
		case cls.Name == "":
			diags.Add(diag.Errorf(cls.Pos, "S001", "class without a name"))
		case declared[cls.Name]:
			diags.Add(diag.Errorf(cls.Pos, "S002", "class %q declared twice", cls.Name))
		}
		for _, b := range cls.Bases {
			if !declared[b] {
				diags.Add(diag.Errorf(cls.Pos, "S003", "class %q: base %q must be declared before it", cls.Name, b))
			}
		}
		if cls.Items != nil && cls.IterItems != nil {
			diags.Add(diag.Errorf(cls.Pos, "S004", "class %q: items and iter_items are exclusive", cls.Name))
		}
		declared[cls.Name] = true
	}
	for i, chk := range sc.Checks {
		label := chk.Label(i)
		if !knownOps[chk.Op] {
			diags.Add(diag.Errorf(chk.Pos, "S010", "%s: unknown op %q", label, chk.Op))
		}
		switch {
		case chk.Target == "" && chk.Value == nil:
			diags.Add(diag.Errorf(chk.Pos, "S011", "%s: needs a target or a value", label))
		case chk.Target != "" && !declared[chk.Target]:
			diags.Add(diag.Errorf(chk.Pos, "S012", "%s: unknown target %q", label, chk.Target))
		}
		if chk.Hint != nil && chk.Unknown {
			diags.Add(diag.Errorf(chk.Pos, "S013", "%s: hint and unknown are exclusive", label))
		}
		if chk.Op == OpNext && chk.Count < 1 {
			diags.Add(diag.Errorf(chk.Pos, "S014", "%s: next needs count >= 1", label))
		}
	}
	return diags.Err()
}

// Label names the check for reports.
func (chk Check) Label(i int) string {
	if chk.Name != "" {
		return chk.Name
	}
	target := chk.Target
	if target == "" {
		target = "value"
	}
	return chk.Op + " " + target + " #" + strconv.Itoa(i+1)
}
