package core

import (
	"sort"

	"github.com/maruel/natural"
)

// sortList sorts a list of numbers in ascending order or a list of strings in natural order (a2 < a10).
func sortList(list *List) error {
	if list.Len() == 0 {
		return nil
	}

	switch list.elements[0].(type) {
	case Number:
		for _, elem := range list.elements {
			if _, ok := elem.(Number); !ok {
				return errorf(ErrTypeError, "sort(): a list of numbers cannot contain a %s", elem.TypeName())
			}
		}
		sort.SliceStable(list.elements, func(i, j int) bool {
			return list.elements[i].(Number) < list.elements[j].(Number)
		})
	case String:
		for _, elem := range list.elements {
			if _, ok := elem.(String); !ok {
				return errorf(ErrTypeError, "sort(): a list of strings cannot contain a %s", elem.TypeName())
			}
		}
		sort.SliceStable(list.elements, func(i, j int) bool {
			return natural.Less(string(list.elements[i].(String)), string(list.elements[j].(String)))
		})
	default:
		return errorf(ErrTypeError, "sort(): only lists of numbers and lists of strings can be sorted, not lists of %s", list.elements[0].TypeName())
	}

	return nil
}
