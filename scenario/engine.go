package scenario

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/roomtrials/sim"
)

type engineFunc func(args ...tengo.Object) (tengo.Object, error)

func buildEngine(s *sim.Simulation, report *Report, log *slog.Logger) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f engineFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: tengo.CallableFunc(f)}
	}

	fn("grab", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		i, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "index", Expected: "int", Found: args[0].TypeName()}
		}
		ok = s.Grab(i)
		s.Step()
		return boolObject(ok), nil
	})

	fn("release", func(args ...tengo.Object) (tengo.Object, error) {
		ok := s.Release()
		s.Step()
		return boolObject(ok), nil
	})

	fn("walk", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		if err := s.Walk(objectAsString(args[0])); err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return tengo.TrueValue, nil
	})

	fn("wait", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		d, err := objectAsDuration(args[0])
		if err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		s.Advance(d)
		return tengo.UndefinedValue, nil
	})

	fn("tick", func(args ...tengo.Object) (tengo.Object, error) {
		n := 1
		if len(args) > 0 {
			if v, ok := tengo.ToInt(args[0]); ok {
				n = v
			}
		}
		for i := 0; i < n; i++ {
			s.Step()
		}
		return &tengo.Int{Value: int64(s.Timers.Tick())}, nil
	})

	fn("phase", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: s.Controller.Phase().String()}, nil
	})
	fn("trial", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.Controller.Trial())}, nil
	})
	fn("grabs", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.Controller.Grabs())}, nil
	})
	fn("choice", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.Controller.Choice())}, nil
	})
	fn("locked", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(s.Controller.Locked()), nil
	})
	fn("panel", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: s.ActivePanel()}, nil
	})
	fn("reward", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(s.RewardVisible()), nil
	})
	fn("outcomes", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(len(s.Controller.Outcomes()))}, nil
	})
	fn("door", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		return boolObject(s.DoorOpen(objectAsString(args[0]))), nil
	})

	fn("expect", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		if !args[0].IsFalsy() {
			return tengo.TrueValue, nil
		}
		msg := "expectation failed"
		if len(args) > 1 {
			msg = joinObjects(args[1:])
		}
		failure := fmt.Sprintf("tick %d: %s (phase %s)", s.Timers.Tick(), msg, s.Controller.Phase())
		report.Failures = append(report.Failures, failure)
		log.Warn("expectation failed", "detail", failure)
		return tengo.FalseValue, nil
	})

	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		line := joinObjects(args)
		report.Logs = append(report.Logs, line)
		log.Info(line)
		return tengo.UndefinedValue, nil
	})

	values["spec"] = &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"name":              &tengo.String{Value: s.Spec.Name},
		"variant":           &tengo.String{Value: s.Spec.Variant},
		"trials":            &tengo.Int{Value: int64(s.Spec.Trials)},
		"boxes":             &tengo.Int{Value: int64(len(s.Spec.Boxes))},
		"wait":              &tengo.String{Value: s.Spec.Wait.String()},
		"return_door_delay": &tengo.String{Value: s.Spec.ReturnDoorDelay.String()},
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

// objectAsDuration accepts a duration string ("1.5s") or a number of seconds.
func objectAsDuration(obj tengo.Object) (time.Duration, error) {
	switch v := obj.(type) {
	case *tengo.String:
		return time.ParseDuration(v.Value)
	case *tengo.Int:
		return time.Duration(v.Value) * time.Second, nil
	case *tengo.Float:
		return time.Duration(v.Value * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("cannot use %s as a duration", obj.TypeName())
	}
}

func joinObjects(args []tengo.Object) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, objectAsString(a))
	}
	return strings.Join(parts, " ")
}
