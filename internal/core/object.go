package core

// An Object is a mutable mapping from strings to values, the insertion order of the keys is preserved.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: map[string]Value{}}
}

func NewObjectFromMap(keys []string, values map[string]Value) *Object {
	obj := NewObject()
	for _, k := range keys {
		obj.Set(k, values[k])
	}
	return obj
}

func (*Object) TypeName() string {
	return OBJECT_TYPENAME
}

// Get returns the value of a field, nil is returned for missing fields.
func (obj *Object) Get(key string) Value {
	v, ok := obj.values[key]
	if !ok {
		return Nil
	}
	return v
}

func (obj *Object) Has(key string) bool {
	_, ok := obj.values[key]
	return ok
}

func (obj *Object) Set(key string, v Value) {
	if _, ok := obj.values[key]; !ok {
		obj.keys = append(obj.keys, key)
	}
	obj.values[key] = v
}

func (obj *Object) Len() int {
	return len(obj.keys)
}

// Keys returns the keys in insertion order, the result should not be modified.
func (obj *Object) Keys() []string {
	return obj.keys
}
