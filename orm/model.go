package orm

import (
	"github.com/gogo/protobuf/proto"
)

// Model is implemented by any entity that can be stored in a Bucket.
type Model interface {
	proto.Message
	Validate() error
}

// ModelSlicePtr is a pointer to a slice of models, like *[]*MyModel. It is
// the destination of any query returning many entities.
type ModelSlicePtr interface{}
