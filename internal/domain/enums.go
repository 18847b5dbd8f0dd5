package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Semester is a curriculum semester label, S1 through S10.
type Semester string

const (
	MinSemester = 1
	MaxSemester = 10
)

func (s Semester) String() string { return string(s) }

// Number returns the numeric part of the label, or 0 when the label is malformed.
func (s Semester) Number() int {
	raw, ok := strings.CutPrefix(string(s), "S")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func (s Semester) IsValid() bool {
	n := s.Number()
	return n >= MinSemester && n <= MaxSemester && string(s) == fmt.Sprintf("S%d", n)
}

// AllSemesters returns the full S1..S10 range.
func AllSemesters() []Semester {
	out := make([]Semester, 0, MaxSemester)
	for i := MinSemester; i <= MaxSemester; i++ {
		out = append(out, Semester(fmt.Sprintf("S%d", i)))
	}
	return out
}

// Operator is a filter clause comparison understood by the backend.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLike         Operator = "like"
	OpILike        Operator = "ilike"
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpIn           Operator = "in"
)

func (o Operator) String() string { return string(o) }

func (o Operator) IsValid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpLike, OpILike, OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpIn:
		return true
	}
	return false
}

// RepeatStatus tells whether a registered semester is taken for the first time.
type RepeatStatus string

const (
	RepeatStatusNormal   RepeatStatus = "Passant"
	RepeatStatusRepeated RepeatStatus = "Redoublant"
)

func (r RepeatStatus) String() string { return string(r) }
