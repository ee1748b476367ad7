package desc

import "github.com/scriptbind/scriptbind/host"

// FunctionDesc is the owned descriptor of one registered callable
// member, together with any default-parameter record bound at
// registration time.
type FunctionDesc struct {
	fn       *host.Function
	defaults host.ParamDefaults
}

// NewFunctionDesc wraps a resolved host function. defaults may be nil;
// absence of a default-parameter record is a normal condition. Invoked
// exactly once per registered function.
func NewFunctionDesc(fn *host.Function, defaults host.ParamDefaults) *FunctionDesc {
	return &FunctionDesc{fn: fn, defaults: defaults}
}

func (fd *FunctionDesc) Name() string         { return fd.fn.Name() }
func (fd *FunctionDesc) Params() []host.Param { return fd.fn.Params() }

// Function returns the underlying host member.
func (fd *FunctionDesc) Function() *host.Function { return fd.fn }

// DefaultFor returns the default literal bound to the named parameter.
func (fd *FunctionDesc) DefaultFor(param string) (string, bool) {
	v, ok := fd.defaults[param]
	return v, ok
}

// HasDefaults reports whether any parameter carries a default.
func (fd *FunctionDesc) HasDefaults() bool { return len(fd.defaults) > 0 }
