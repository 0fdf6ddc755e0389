package filter

import (
	"strconv"
	"strings"
)

// Serialize encodes a tree in the wire format accepted by Parse.
// Operand order is preserved.
func Serialize(root Node) (string, error) {
	var sb strings.Builder
	if err := serializeNode(&sb, root); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func serializeNode(sb *strings.Builder, n Node) error {
	switch node := n.(type) {
	case *ColumnIndexOperand:
		sb.WriteByte(tokenColumn)
		sb.WriteString(strconv.FormatUint(uint64(node.index), 10))

	case *ScalarOperand:
		sb.WriteByte(tokenConstant)
		sb.WriteString(strconv.FormatUint(uint64(node.dataType), 10))
		writeSizedValue(sb, node.value)

	case *CollectionOperand:
		sb.WriteByte(tokenCollection)
		sb.WriteString(strconv.FormatUint(uint64(node.dataType), 10))
		for _, v := range node.values {
			writeSizedValue(sb, v)
		}

	case *Operator:
		if node.left == nil || (node.op.Arity() == 2 && node.right == nil) {
			return &TreeShapeError{Op: node.op, Msg: node.op.String() + " is missing a child"}
		}
		if err := serializeNode(sb, node.left); err != nil {
			return err
		}
		if node.right != nil {
			if err := serializeNode(sb, node.right); err != nil {
				return err
			}
		}
		if node.op.IsLogical() {
			sb.WriteByte(tokenLogical)
		} else {
			sb.WriteByte(tokenOperator)
		}
		sb.WriteString(strconv.Itoa(node.op.Code()))

	default:
		return &TreeShapeError{Msg: "cannot serialize an absent node"}
	}
	return nil
}

func writeSizedValue(sb *strings.Builder, v string) {
	sb.WriteByte(tokenSize)
	sb.WriteString(strconv.Itoa(len(v)))
	sb.WriteByte(tokenData)
	sb.WriteString(v)
}
