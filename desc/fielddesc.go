package desc

// FieldDesc is a resolved reference to one named member of a declaring
// type. The sign of FieldIndex distinguishes properties (positive)
// from functions (negative); the magnitude minus one indexes the
// declaring class's descriptor slice. The index is meaningless outside
// OuterClass.
type FieldDesc struct {
	// QueryClass is the descriptor the lookup was first issued
	// against; it differs from OuterClass when the member is
	// inherited.
	QueryClass *ClassDesc

	// OuterClass is the descriptor of the type that directly declares
	// the member, and the owner of this field's storage.
	OuterClass *ClassDesc

	FieldIndex int
}

// IsProperty reports whether the field resolves to a data member.
func (fd *FieldDesc) IsProperty() bool { return fd.FieldIndex > 0 }

// IsFunction reports whether the field resolves to a callable member.
func (fd *FieldDesc) IsFunction() bool { return fd.FieldIndex < 0 }

// Property returns the property descriptor this field refers to, or
// nil if the field is a function or its class has been unloaded.
func (fd *FieldDesc) Property() *PropertyDesc {
	if fd.FieldIndex <= 0 {
		return nil
	}
	props := fd.OuterClass.properties
	if fd.FieldIndex > len(props) {
		return nil
	}
	return props[fd.FieldIndex-1]
}

// Function returns the function descriptor this field refers to, or
// nil if the field is a property or its class has been unloaded.
func (fd *FieldDesc) Function() *FunctionDesc {
	if fd.FieldIndex >= 0 {
		return nil
	}
	funcs := fd.OuterClass.functions
	if -fd.FieldIndex > len(funcs) {
		return nil
	}
	return funcs[-fd.FieldIndex-1]
}
