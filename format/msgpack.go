package format

import (
	"io"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackEncoder writes the syntax tree of a module in MessagePack, one
// value per module. Attribute maps are written with sorted keys so equal
// trees encode to equal bytes.
type MsgpackEncoder struct {
	enc *msgpack.Encoder
}

func NewMsgpackEncoder(w io.Writer) *MsgpackEncoder {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return &MsgpackEncoder{enc: enc}
}

func (e *MsgpackEncoder) Encode(m *ast.Module) error {
	return e.enc.Encode(Tree(m))
}

// DecodeTree reads one tree written by MsgpackEncoder.
func DecodeTree(r io.Reader) (*TreeNode, error) {
	var tn TreeNode
	if err := msgpack.NewDecoder(r).Decode(&tn); err != nil {
		return nil, err
	}
	return &tn, nil
}
