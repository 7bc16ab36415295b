package render

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/topoviz/pkg/errors"
)

// PathOp is an absolute SVG path command.
type PathOp byte

// Supported path commands. Icon and marker paths only use these.
const (
	OpMove  PathOp = 'M'
	OpLine  PathOp = 'L'
	OpCubic PathOp = 'C'
	OpClose PathOp = 'Z'
)

// PathCmd is one command with its absolute coordinates.
type PathCmd struct {
	Op   PathOp
	Args []float64
}

var pathArity = map[PathOp]int{OpMove: 2, OpLine: 2, OpCubic: 6, OpClose: 0}

// ParsePath parses the absolute M, L, C and Z subset of SVG path data, so
// raster surfaces can replay icons without an SVG engine. Implicit
// repetition after a command ("L1,2 3,4") is accepted.
func ParsePath(d string) ([]PathCmd, error) {
	var cmds []PathCmd
	var op PathOp
	var args []float64

	flush := func() error {
		if op == 0 {
			if len(args) > 0 {
				return errors.New(errors.ErrCodeInvalidFormat, "path: coordinates before first command")
			}
			return nil
		}
		n := pathArity[op]
		if n == 0 {
			cmds = append(cmds, PathCmd{Op: op})
			args = args[:0]
			return nil
		}
		if len(args) == 0 || len(args)%n != 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "path: %c takes %d coordinates, got %d", op, n, len(args))
		}
		for i := 0; i < len(args); i += n {
			next := op
			if op == OpMove && i > 0 {
				next = OpLine
			}
			cmds = append(cmds, PathCmd{Op: next, Args: append([]float64(nil), args[i:i+n]...)})
		}
		args = args[:0]
		return nil
	}

	fields := strings.FieldsFunc(d, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	for _, f := range fields {
		for f != "" {
			c := PathOp(f[0])
			if _, ok := pathArity[c]; ok {
				if err := flush(); err != nil {
					return nil, err
				}
				op = c
				f = f[1:]
				continue
			}
			if unicode.IsLetter(rune(f[0])) {
				return nil, errors.New(errors.ErrCodeUnsupported, "path: command %q not supported", f[0])
			}
			end := numberEnd(f)
			v, err := strconv.ParseFloat(f[:end], 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "path: bad number %q", f[:end])
			}
			args = append(args, v)
			f = f[end:]
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// numberEnd returns the length of the leading number in s.
func numberEnd(s string) int {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '-' || s[i] == '+') {
			i++
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i == 0 {
		return 1
	}
	return i
}
