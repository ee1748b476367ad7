package desc

import "github.com/scriptbind/scriptbind/host"

// PropertyDesc is the owned descriptor of one registered data member.
// Value marshalling is the scripting layer's concern; this record
// carries what it needs to locate the member.
type PropertyDesc struct {
	prop *host.Property
}

// NewPropertyDesc wraps a resolved host property. Invoked exactly once
// per registered property.
func NewPropertyDesc(p *host.Property) *PropertyDesc {
	return &PropertyDesc{prop: p}
}

func (pd *PropertyDesc) Name() string     { return pd.prop.Name() }
func (pd *PropertyDesc) TypeName() string { return pd.prop.TypeName() }
func (pd *PropertyDesc) Offset() int      { return pd.prop.Offset() }

// Property returns the underlying host member.
func (pd *PropertyDesc) Property() *host.Property { return pd.prop }
