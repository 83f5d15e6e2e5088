package object

import (
	"encoding/json"
	"fmt"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/op"
)

// Reserved instance ids understood by the interpreter.
const (
	SelfID  int64 = -1
	OtherID int64 = -2
	AllID   int64 = -3
	NooneID int64 = -4
)

// InstanceRef is an opaque handle to a game-object instance. The instance
// itself lives in the host's instance directory; the reference only carries
// its id.
type InstanceRef struct {
	id int64
}

func (r *InstanceRef) Type() Type {
	return INSTANCE
}

func (r *InstanceRef) ID() int64 {
	return r.id
}

func (r *InstanceRef) Inspect() string {
	return fmt.Sprintf("ref instance %d", r.id)
}

func (r *InstanceRef) String() string {
	return r.Inspect()
}

func (r *InstanceRef) Interface() interface{} {
	return r.id
}

func (r *InstanceRef) Compare(other Object) (int, error) {
	otherRef, ok := other.(*InstanceRef)
	if !ok {
		return 0, errz.TypeErrorf("unable to compare ref and %s", other.Type())
	}
	return compareInts(r.id, otherRef.id), nil
}

func (r *InstanceRef) Equals(other Object) bool {
	otherRef, ok := other.(*InstanceRef)
	return ok && r.id == otherRef.id
}

func (r *InstanceRef) IsTruthy() bool {
	return r.id != NooneID
}

func (r *InstanceRef) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, errz.TypeErrorf("unsupported operation for ref: %v", opType)
}

func (r *InstanceRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.id)
}

func NewInstanceRef(id int64) *InstanceRef {
	return &InstanceRef{id: id}
}
