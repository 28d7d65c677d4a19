package core

type Bool bool

var (
	True  = Bool(true)
	False = Bool(false)
)

func (Bool) TypeName() string {
	return BOOL_TYPENAME
}
