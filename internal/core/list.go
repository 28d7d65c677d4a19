package core

// A List is a mutable sequence of values.
type List struct {
	elements []Value
}

func NewList(elements ...Value) *List {
	if elements == nil {
		elements = []Value{}
	}
	return &List{elements: elements}
}

func NewWrappedStringList(strings ...string) *List {
	elements := make([]Value, len(strings))
	for i, s := range strings {
		elements[i] = String(s)
	}
	return &List{elements: elements}
}

func (*List) TypeName() string {
	return LIST_TYPENAME
}

func (l *List) Len() int {
	return len(l.elements)
}

func (l *List) At(i int) Value {
	return l.elements[i]
}

func (l *List) Set(i int, v Value) {
	l.elements[i] = v
}

func (l *List) Append(values ...Value) {
	l.elements = append(l.elements, values...)
}

// Elements returns a copy of the elements of the list.
func (l *List) Elements() []Value {
	elements := make([]Value, len(l.elements))
	copy(elements, l.elements)
	return elements
}

// Concat returns a new list containing the elements of l followed by the elements of other.
func (l *List) Concat(other *List) *List {
	elements := make([]Value, 0, len(l.elements)+len(other.elements))
	elements = append(elements, l.elements...)
	elements = append(elements, other.elements...)
	return &List{elements: elements}
}
