package object

// GetMember reads an attribute stored on the instance itself.
func (i *Instance) GetMember(name string) (Object, bool) {
	v, ok := i.attrs[name]
	return v, ok
}

// SetMember stores an attribute on the instance. A nil value removes it.
func (i *Instance) SetMember(name string, value Object) {
	if value == nil {
		delete(i.attrs, name)
		return
	}
	i.attrs[name] = value
}
