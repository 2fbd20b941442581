package object

import "strings"

var (
	BaseExceptionClass       = newBuiltinClass("BaseException", BaseObjectClass)
	ExceptionClass           = newBuiltinClass("Exception", BaseExceptionClass)
	StopIterationClass       = newBuiltinClass("StopIteration", ExceptionClass)
	TypeErrorClass           = newBuiltinClass("TypeError", ExceptionClass)
	ValueErrorClass          = newBuiltinClass("ValueError", ExceptionClass)
	LookupErrorClass         = newBuiltinClass("LookupError", ExceptionClass)
	IndexErrorClass          = newBuiltinClass("IndexError", LookupErrorClass)
	KeyErrorClass            = newBuiltinClass("KeyError", LookupErrorClass)
	AttributeErrorClass      = newBuiltinClass("AttributeError", ExceptionClass)
	OverflowErrorClass       = newBuiltinClass("OverflowError", ExceptionClass)
	MemoryErrorClass         = newBuiltinClass("MemoryError", ExceptionClass)
	NotImplementedErrorClass = newBuiltinClass("NotImplementedError", ExceptionClass)
)

// ExceptionClasses is the registry of canonical exception classes a Context
// classifies failures against.
type ExceptionClasses struct {
	BaseException       *Class
	Exception           *Class
	StopIteration       *Class
	TypeError           *Class
	ValueError          *Class
	LookupError         *Class
	IndexError          *Class
	KeyError            *Class
	AttributeError      *Class
	OverflowError       *Class
	MemoryError         *Class
	NotImplementedError *Class
}

func defaultExceptions() *ExceptionClasses {
	return &ExceptionClasses{
		BaseException:       BaseExceptionClass,
		Exception:           ExceptionClass,
		StopIteration:       StopIterationClass,
		TypeError:           TypeErrorClass,
		ValueError:          ValueErrorClass,
		LookupError:         LookupErrorClass,
		IndexError:          IndexErrorClass,
		KeyError:            KeyErrorClass,
		AttributeError:      AttributeErrorClass,
		OverflowError:       OverflowErrorClass,
		MemoryError:         MemoryErrorClass,
		NotImplementedError: NotImplementedErrorClass,
	}
}

func (e *ExceptionClasses) all() []*Class {
	return []*Class{
		e.BaseException, e.Exception, e.StopIteration, e.TypeError, e.ValueError,
		e.LookupError, e.IndexError, e.KeyError, e.AttributeError, e.OverflowError,
		e.MemoryError, e.NotImplementedError,
	}
}

// Exception is a raised runtime exception. It travels through Go's error
// channel and is classified with Context.Matches.
type Exception struct {
	class *Class
	Args  []Object
}

func (e *Exception) Type() *Class { return e.class }

func (e *Exception) Inspect() string {
	return e.class.Name + "(" + joinInspect(e.Args) + ")"
}

func (e *Exception) Error() string {
	switch len(e.Args) {
	case 0:
		return e.class.Name
	case 1:
		return e.class.Name + ": " + e.Args[0].Inspect()
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.Inspect()
	}
	return e.class.Name + ": (" + strings.Join(parts, ", ") + ")"
}
