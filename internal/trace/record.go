// Package trace parses a dynamic execution trace into typed records.
package trace

// FunctionType classifies the kind of frame a trace record describes.
type FunctionType string

const (
	FunctionSource     FunctionType = "SOURCE"
	FunctionTestFunc   FunctionType = "TEST_FUNCTION"
	FunctionTestClass  FunctionType = "TEST_CLASS"
	FunctionTestHelper FunctionType = "TEST_HELPER"
	FunctionAssert     FunctionType = "ASSERT"
)

// TestingMethod marks the push/pop boundary of an active test window.
type TestingMethod string

const (
	TestMethodCall   TestingMethod = "TEST_METHOD_CALL"
	TestMethodReturn TestingMethod = "TEST_METHOD_RETURN"
	TestMethodNone   TestingMethod = ""
)

// EventType is the kind of interpreter event the record captures.
type EventType string

const (
	EventCall      EventType = "CALL"
	EventReturn    EventType = "RETURN"
	EventLine      EventType = "LINE"
	EventException EventType = "EXCEPTION"
)

// Record is one event in the trace. Columns the core does not consult
// (Return Value, Return Type, Exception Type/Message, Thread ID, Line) are
// dropped at parse time — they never leave the reader.
type Record struct {
	Depth                      int
	FunctionType               FunctionType
	TestingMethod              TestingMethod
	EventType                  EventType
	FunctionName               string
	FullyQualifiedFunctionName string
	ClassName                  string
	FullyQualifiedClassName    string
}

// Granularity selects which identifier field names an entity.
type Granularity int

const (
	Function Granularity = iota
	Class
)

func (g Granularity) String() string {
	if g == Class {
		return "class"
	}
	return "function"
}

// ParseGranularity accepts the CLI's "function"/"class" spelling.
func ParseGranularity(s string) (Granularity, bool) {
	switch s {
	case "function", "":
		return Function, true
	case "class":
		return Class, true
	default:
		return 0, false
	}
}

// ID returns the fully qualified identifier for the record at the chosen
// granularity, or "" if the record carries none (treated as non-existent
// per spec §4.1's "empty id fields ... contribute nothing").
func (r Record) ID(g Granularity) string {
	if g == Class {
		return r.FullyQualifiedClassName
	}
	return r.FullyQualifiedFunctionName
}

// ShortName returns the short (unqualified) name at the chosen granularity.
func (r Record) ShortName(g Granularity) string {
	if g == Class {
		return r.ClassName
	}
	return r.FunctionName
}
