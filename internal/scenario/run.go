package scenario

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"iterproto/internal/builtins"
	"iterproto/internal/iterate"
	"iterproto/internal/object"
)

type Options struct {
	// MaxMemory bounds the bytes each scenario may charge. Zero means
	// unlimited.
	MaxMemory int64
}

// Result is the outcome of one check.
type Result struct {
	Check  string   `json:"check"`
	Op     string   `json:"op"`
	Passed bool     `json:"passed"`
	Got    []string `json:"got,omitempty"`
	Hint   *int64   `json:"hint,omitempty"`
	Stop   string   `json:"stop,omitempty"`
	Error  string   `json:"error,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

type Report struct {
	Scenario string   `json:"scenario"`
	Path     string   `json:"path"`
	Results  []Result `json:"results"`
}

func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

func (r *Report) Passed() bool { return r.Failures() == 0 }

// observation is what running a check produced.
type observation struct {
	values  []object.Object
	hint    int
	hasHint bool
	stop    object.Object
	err     error
	// extra holds a failure found while confirming exhaustion.
	extra string
}

// Run executes every check of sc in a fresh Context.
func Run(ctx context.Context, sc *Scenario, opts Options) (*Report, error) {
	c := object.NewContext()
	c.SetMaxMemory(opts.MaxMemory)
	builtins.Install(c)
	env := object.NewEnclosedEnvironment(c.Globals())
	if err := declare(c, env, sc.Classes); err != nil {
		return nil, errors.Wrapf(err, "%s", sc.Path)
	}

	report := &Report{Scenario: sc.Name, Path: sc.Path}
	for i, chk := range sc.Checks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := runCheck(c, env, chk, chk.Label(i))
		log.Debugf("%s: %s passed=%v", sc.Name, res.Check, res.Passed)
		report.Results = append(report.Results, res)
	}
	return report, nil
}

// RunFiles loads and runs the scenario files, at most parallel at a time.
// Each file gets its own Context. Reports come back in the order of paths.
func RunFiles(ctx context.Context, paths []string, opts Options, parallel int) ([]*Report, error) {
	reports := make([]*Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, path := range paths {
		g.Go(func() error {
			sc, err := Load(path)
			if err != nil {
				return err
			}
			r, err := Run(ctx, sc, opts)
			if err != nil {
				return errors.Wrapf(err, "running %s", path)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func runCheck(c *object.Context, env *object.Environment, chk Check, label string) Result {
	res := Result{Check: label, Op: chk.Op}
	var obs observation
	target, err := resolveTarget(c, env, chk)
	var exc *object.Exception
	switch {
	case err == nil:
		obs = observe(c, env, chk, target)
	case errors.As(err, &exc):
		// allocating the target itself can exhaust the budget
		obs.err = err
	default:
		res.Reason = err.Error()
		return res
	}

	for _, v := range obs.values {
		res.Got = append(res.Got, render(v))
	}
	if obs.hasHint {
		n := int64(obs.hint)
		res.Hint = &n
	}
	if obs.stop != nil {
		res.Stop = render(obs.stop)
	}
	if obs.err != nil {
		res.Error = obs.err.Error()
	}
	res.Reason = compare(c, chk, obs)
	res.Passed = res.Reason == ""
	return res
}

func resolveTarget(c *object.Context, env *object.Environment, chk Check) (object.Object, error) {
	var obj object.Object
	if chk.Target == "" {
		v, err := ToObject(chk.Value)
		if err != nil {
			return nil, err
		}
		obj = v
	} else {
		v, ok := env.Get(chk.Target)
		if !ok {
			return nil, errors.Errorf("unknown target %q", chk.Target)
		}
		cls, ok := v.(*object.Class)
		if !ok {
			return v, nil
		}
		obj = object.NewInstance(cls)
	}
	if err := c.Alloc(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func observe(c *object.Context, env *object.Environment, chk Check, target object.Object) observation {
	var obs observation
	switch chk.Op {
	case OpIter:
		it, err := iterate.GetIter(c, target)
		if err != nil {
			obs.err = err
			return obs
		}
		obs.values, obs.err = drain(c, it)
		if obs.err == nil {
			obs.extra = confirmExhausted(c, it, chk.Exhausted)
		}
	case OpReversed:
		it, err := iterate.Reversed(c, target)
		if err != nil {
			obs.err = err
			return obs
		}
		obs.values, obs.err = drain(c, it)
		if obs.err == nil {
			obs.extra = confirmExhausted(c, it, chk.Exhausted)
		}
	case OpList, OpTuple:
		v, err := callBuiltin(c, env, chk.Op, target)
		if err != nil {
			obs.err = err
			return obs
		}
		switch seq := v.(type) {
		case *object.List:
			obs.values = seq.Elements
		case *object.Tuple:
			obs.values = seq.Elements
		}
	case OpLen:
		n, ok, err := iterate.Len(c, target)
		if err == nil && !ok {
			err = c.NewTypeError(fmt.Sprintf("object of type '%s' has no len()", object.TypeName(target)))
		}
		obs.hint, obs.hasHint, obs.err = n, ok && err == nil, err
	case OpLengthHint:
		obs.hint, obs.hasHint, obs.err = iterate.LengthHint(c, target)
	case OpNext:
		it, err := iterate.GetIter(c, target)
		if err != nil {
			obs.err = err
			return obs
		}
		for i := 0; i < chk.Count; i++ {
			args := []object.Object{it}
			if chk.Default != nil {
				def, err := ToObject(chk.Default)
				if err != nil {
					obs.err = err
					return obs
				}
				args = append(args, def)
			}
			v, err := callBuiltin(c, env, "next", args...)
			if err != nil {
				obs.err = err
				return obs
			}
			obs.values = append(obs.values, v)
		}
	case OpStopValue:
		it, err := iterate.GetIter(c, target)
		if err != nil {
			obs.err = err
			return obs
		}
		for {
			out, err := iterate.Advance(c, it)
			if err != nil {
				obs.err = err
				return obs
			}
			if out.Done {
				obs.stop = out.Payload
				return obs
			}
			obs.values = append(obs.values, out.Value)
		}
	}
	return obs
}

func drain(c *object.Context, it object.Object) ([]object.Object, error) {
	var out []object.Object
	for v, err := range iterate.Values(c, it) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

func confirmExhausted(c *object.Context, it object.Object, times int) string {
	for i := 0; i < times; i++ {
		v, ok, err := iterate.Next(c, it)
		if err != nil {
			return fmt.Sprintf("advance %d after exhaustion failed: %v", i+1, err)
		}
		if ok {
			return fmt.Sprintf("advance %d after exhaustion produced %s", i+1, render(v))
		}
	}
	return ""
}

func callBuiltin(c *object.Context, env *object.Environment, name string, args ...object.Object) (object.Object, error) {
	fn, ok := env.Get(name)
	if !ok {
		return nil, errors.Errorf("builtin %q is not installed", name)
	}
	return c.Invoke(fn, args...)
}

func render(obj object.Object) string {
	if s, ok := obj.(*object.String); ok {
		return strconv.Quote(s.Value)
	}
	return obj.Inspect()
}

func renderAll(vals []any) ([]string, error) {
	out := make([]string, len(vals))
	for i, v := range vals {
		obj, err := ToObject(v)
		if err != nil {
			return nil, err
		}
		out[i] = render(obj)
	}
	return out, nil
}

// compare returns why obs does not meet chk, or "" when it does.
func compare(c *object.Context, chk Check, obs observation) string {
	if chk.Error != "" {
		cls, ok := c.LookupType(chk.Error)
		if !ok {
			return fmt.Sprintf("unknown exception class %q", chk.Error)
		}
		if obs.err == nil {
			return fmt.Sprintf("expected %s, got no error", chk.Error)
		}
		if !c.Matches(obs.err, cls) {
			return fmt.Sprintf("expected %s, got %v", chk.Error, obs.err)
		}
		if chk.ErrorContains != "" && !strings.Contains(obs.err.Error(), chk.ErrorContains) {
			return fmt.Sprintf("expected error containing %q, got %q", chk.ErrorContains, obs.err.Error())
		}
	} else if obs.err != nil {
		return fmt.Sprintf("unexpected error: %v", obs.err)
	}
	if obs.extra != "" {
		return obs.extra
	}

	if chk.Values != nil {
		want, err := renderAll(chk.Values)
		if err != nil {
			return err.Error()
		}
		got := make([]string, len(obs.values))
		for i, v := range obs.values {
			got[i] = render(v)
		}
		if strings.Join(want, ", ") != strings.Join(got, ", ") || len(want) != len(got) {
			return fmt.Sprintf("expected values [%s], got [%s]", strings.Join(want, ", "), strings.Join(got, ", "))
		}
	}
	if chk.Hint != nil {
		if !obs.hasHint {
			return fmt.Sprintf("expected hint %d, got none", *chk.Hint)
		}
		if int64(obs.hint) != *chk.Hint {
			return fmt.Sprintf("expected hint %d, got %d", *chk.Hint, obs.hint)
		}
	}
	if chk.Unknown && obs.hasHint {
		return fmt.Sprintf("expected no hint, got %d", obs.hint)
	}
	if chk.Stop != nil || chk.StopNone {
		want, err := ToObject(chk.Stop)
		if err != nil {
			return err.Error()
		}
		if obs.stop == nil {
			return fmt.Sprintf("expected stop value %s, iteration did not finish", render(want))
		}
		if render(obs.stop) != render(want) {
			return fmt.Sprintf("expected stop value %s, got %s", render(want), render(obs.stop))
		}
	}
	return ""
}
