// Package notation parses standard Rubik's cube algorithm notation into the
// numeric (face, depth, quarter-turns) triples the controller and geometry
// operate on, generalized from 3×3 notation to arbitrary cube sizes.
package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// Face letters map to the canonical face indices used throughout the
// package: U=0, F=1, R=2, B=3, L=4, D=5, matching the opposite pairs
// {0,5}, {1,3}, {2,4}.
const (
	FaceU = 0
	FaceF = 1
	FaceR = 2
	FaceB = 3
	FaceL = 4
	FaceD = 5
)

var faceLetters = map[byte]int{
	'U': FaceU,
	'F': FaceF,
	'R': FaceR,
	'B': FaceB,
	'L': FaceL,
	'D': FaceD,
}

// Move is one parsed token: turn the outermost `Depth` layers of `Face`
// clockwise `Turns` times (1 for a quarter turn, 2 for a half turn, 3 for a
// counter-clockwise quarter turn).
type Move struct {
	Face  int
	Depth int
	Turns int
}

// Layers returns the set of layer indices, as Cube.Rotate expects them,
// that this move turns: the outermost Depth layers as viewed from Face, on
// a cube of the given size.
func (m Move) Layers(size int) []int {
	layers := make([]int, m.Depth)
	for i := 0; i < m.Depth; i++ {
		layers[i] = i
	}
	return layers
}

// Parse parses a single notation token such as "R", "R'", "R2", "Rw",
// "3Rw'", or "3Rw2". An optional leading digit gives the wide-turn depth
// (default 1, or 2 when a trailing "w" is present without a digit); an
// optional trailing "'" or "2" gives the turn count.
func Parse(tok string) (Move, error) {
	s := strings.TrimSpace(tok)
	if s == "" {
		return Move{}, fmt.Errorf("notation: empty move")
	}

	i := 0
	depth := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 {
		d, err := strconv.Atoi(s[:i])
		if err != nil {
			return Move{}, fmt.Errorf("notation: invalid depth in %q", tok)
		}
		depth = d
	}

	if i >= len(s) {
		return Move{}, fmt.Errorf("notation: missing face letter in %q", tok)
	}
	face, ok := faceLetters[upper(s[i])]
	if !ok {
		return Move{}, fmt.Errorf("notation: unknown face %q in %q", s[i:i+1], tok)
	}
	i++

	wide := false
	if i < len(s) && (s[i] == 'w' || s[i] == 'W') {
		wide = true
		i++
	}

	if depth == 0 {
		depth = 1
		if wide {
			depth = 2
		}
	}

	turns := 1
	switch s[i:] {
	case "":
		turns = 1
	case "'", "`":
		turns = 3
	case "2":
		turns = 2
	case "2'", "2`":
		turns = 2
	default:
		return Move{}, fmt.Errorf("notation: invalid suffix %q in %q", s[i:], tok)
	}

	return Move{Face: face, Depth: depth, Turns: turns}, nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// ParseAlgorithm parses a whitespace-separated sequence of moves, such as
// "R U R' F2 3Rw". The first parse error aborts and is returned.
func ParseAlgorithm(s string) ([]Move, error) {
	fields := strings.Fields(s)
	moves := make([]Move, 0, len(fields))
	for _, f := range fields {
		m, err := Parse(f)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
