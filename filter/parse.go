package filter

import (
	"fmt"
	"math"
)

// Wire token prefixes.
const (
	tokenColumn     = 'a'
	tokenConstant   = 'c'
	tokenCollection = 'm'
	tokenSize       = 's'
	tokenData       = 'd'
	tokenOperator   = 'o'
	tokenLogical    = 'l'
)

// Parse decodes a postfix-encoded filter into an expression tree.
//
// The grammar is a stack machine with these tokens:
//
//	a<idx>                       push column operand
//	c<type>s<len>d<bytes>        push scalar literal of len bytes
//	m<type>(s<len>d<bytes>)+     push collection literal (array type)
//	o<code>                      pop 1 or 2 operands, push predicate
//	l<code>                      pop 1 or 2 predicates, push AND/OR/NOT
//
// Numbers are base-10 and must fit a signed 32-bit integer. The input must
// reduce to exactly one predicate. Errors are *FilterSyntaxError values.
//
// Example:
//
//	tree, err := filter.Parse("a1c23s2d10o2a2o8l0")
//	// (_1_ > 10 AND _2_ IS NULL)
func Parse(input string) (Node, error) {
	p := &parser{input: input}
	return p.parse()
}

type parser struct {
	input string
	pos   int
	stack []Node
}

func (p *parser) parse() (Node, error) {
	for p.pos < len(p.input) {
		start := p.pos
		c := p.input[p.pos]
		p.pos++

		var err error
		switch c {
		case tokenColumn:
			err = p.parseColumn()
		case tokenConstant:
			err = p.parseScalar()
		case tokenCollection:
			err = p.parseCollection()
		case tokenOperator:
			err = p.parseOperator()
		case tokenLogical:
			err = p.parseLogical()
		default:
			err = p.errorAt(start, ErrUnexpectedChar, fmt.Sprintf("unknown token %q", c))
		}
		if err != nil {
			return nil, err
		}
	}

	switch len(p.stack) {
	case 0:
		return nil, p.errorAt(len(p.input), ErrEmptyResult, "")
	case 1:
	default:
		return nil, p.errorAt(len(p.input), ErrLeftoverStack,
			fmt.Sprintf("%d expressions remain", len(p.stack)))
	}

	root := p.stack[0]
	if _, ok := root.(*Operator); !ok {
		return nil, p.errorAt(len(p.input), ErrInvalidOperand, "filter has no operator")
	}
	return root, nil
}

func (p *parser) parseColumn() error {
	idx, err := p.parseInt()
	if err != nil {
		return err
	}
	p.push(NewColumnIndex(uint32(idx)))
	return nil
}

func (p *parser) parseScalar() error {
	dt, err := p.parseDataType()
	if err != nil {
		return err
	}
	if dt.IsArray() {
		return p.errorAt(p.pos, ErrUnknownDataType, dt.String()+" is not a scalar type")
	}

	if err := p.expect(tokenSize); err != nil {
		return err
	}
	value, err := p.parseSizedValue()
	if err != nil {
		return err
	}

	p.push(&ScalarOperand{dataType: dt, value: value})
	return nil
}

func (p *parser) parseCollection() error {
	dt, err := p.parseDataType()
	if err != nil {
		return err
	}
	if !dt.IsArray() {
		return p.errorAt(p.pos, ErrUnknownDataType, dt.String()+" is not a collection type")
	}

	if err := p.expect(tokenSize); err != nil {
		return err
	}
	var values []string
	for {
		value, err := p.parseSizedValue()
		if err != nil {
			return err
		}
		values = append(values, value)

		if p.pos >= len(p.input) || p.input[p.pos] != tokenSize {
			break
		}
		p.pos++
	}

	p.push(&CollectionOperand{dataType: dt, values: values})
	return nil
}

func (p *parser) parseOperator() error {
	code, err := p.parseInt()
	if err != nil {
		return err
	}
	if code >= len(operatorCodes) {
		return p.errorAt(p.pos, ErrUnknownOpcode, fmt.Sprintf("operator code %d", code))
	}
	op := operatorCodes[code]

	operands, err := p.pop(op.Arity())
	if err != nil {
		return err
	}
	for _, n := range operands {
		if _, ok := n.(*Operator); ok {
			return p.errorAt(p.pos, ErrInvalidOperand, op.String()+" expects operands, got an expression")
		}
	}

	var node *Operator
	if len(operands) == 1 {
		node, err = NewOperator(op, operands[0], nil)
	} else {
		node, err = NewOperator(op, operands[0], operands[1])
	}
	if err != nil {
		return p.errorAt(p.pos, ErrInvalidOperand, err.Error())
	}

	p.push(node)
	return nil
}

func (p *parser) parseLogical() error {
	code, err := p.parseInt()
	if err != nil {
		return err
	}
	if code >= len(logicalCodes) {
		return p.errorAt(p.pos, ErrUnknownOpcode, fmt.Sprintf("logical operator code %d", code))
	}
	op := logicalCodes[code]

	children, err := p.pop(op.Arity())
	if err != nil {
		return err
	}
	for _, n := range children {
		if _, ok := n.(*Operator); !ok {
			return p.errorAt(p.pos, ErrInvalidOperand, op.String()+" expects expressions, got an operand")
		}
	}

	var right Node
	if len(children) == 2 {
		right = children[1]
	}
	node, err := NewOperator(op, children[0], right)
	if err != nil {
		return p.errorAt(p.pos, ErrInvalidOperand, err.Error())
	}

	p.push(node)
	return nil
}

// parseDataType reads a type id and resolves it.
func (p *parser) parseDataType() (DataType, error) {
	id, err := p.parseInt()
	if err != nil {
		return TypeUnsupported, err
	}
	dt, ok := LookupDataType(uint32(id))
	if !ok {
		return TypeUnsupported, p.errorAt(p.pos, ErrUnknownDataType, fmt.Sprintf("type id %d", id))
	}
	return dt, nil
}

// parseSizedValue reads `<len>d<bytes>`; the leading `s` is already consumed.
func (p *parser) parseSizedValue() (string, error) {
	size, err := p.parseInt()
	if err != nil {
		return "", err
	}
	if err := p.expect(tokenData); err != nil {
		return "", err
	}
	if size > len(p.input)-p.pos {
		return "", p.errorAt(len(p.input), ErrUnexpectedEnd,
			fmt.Sprintf("literal of %d bytes exceeds input", size))
	}
	value := p.input[p.pos : p.pos+size]
	p.pos += size
	return value, nil
}

// parseInt reads an unsigned base-10 number that fits a signed 32-bit
// integer. Overflow is reported at the position after the last digit.
func (p *parser) parseInt() (int, error) {
	start := p.pos
	var n int64
	overflow := false
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		if !overflow {
			n = n*10 + int64(p.input[p.pos]-'0')
			if n > math.MaxInt32 {
				overflow = true
			}
		}
		p.pos++
	}

	if p.pos == start {
		if p.pos >= len(p.input) {
			return 0, p.errorAt(p.pos, ErrUnexpectedEnd, "expected a number")
		}
		return 0, p.errorAt(p.pos, ErrUnexpectedChar,
			fmt.Sprintf("expected a digit, got %q", p.input[p.pos]))
	}
	if overflow {
		return 0, p.errorAt(p.pos, ErrNumericOverflow, p.input[start:p.pos])
	}
	return int(n), nil
}

func (p *parser) expect(c byte) error {
	if p.pos >= len(p.input) {
		return p.errorAt(p.pos, ErrUnexpectedEnd, fmt.Sprintf("expected %q", c))
	}
	if p.input[p.pos] != c {
		return p.errorAt(p.pos, ErrUnexpectedChar, fmt.Sprintf("expected %q, got %q", c, p.input[p.pos]))
	}
	p.pos++
	return nil
}

func (p *parser) push(n Node) {
	p.stack = append(p.stack, n)
}

// pop removes n nodes and returns them in push order.
func (p *parser) pop(n int) ([]Node, error) {
	if len(p.stack) < n {
		return nil, p.errorAt(p.pos, ErrStackUnderflow,
			fmt.Sprintf("need %d, have %d", n, len(p.stack)))
	}
	nodes := make([]Node, n)
	copy(nodes, p.stack[len(p.stack)-n:])
	p.stack = p.stack[:len(p.stack)-n]
	return nodes, nil
}

func (p *parser) errorAt(pos int, kind error, msg string) *FilterSyntaxError {
	return &FilterSyntaxError{Kind: kind, Position: pos, Msg: msg}
}

// isDigit returns true if c is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
